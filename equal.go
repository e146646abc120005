package jsondoc

// Equal reports whether a and b hold the same JSON value. Numbers compare by
// mathematical value regardless of variant, so Int32(4), UInt64(4) and the
// Double 4.0 are all equal. Objects are equal when they have the same keys and
// equal values under each key; arrays when they have equal elements in the
// same order. A nil Value is only equal to nil.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case String:
		b, ok := b.(String)
		return ok && a == b
	case Bool:
		b, ok := b.(Bool)
		return ok && a == b
	case Null:
		_, ok := b.(Null)
		return ok
	case Raw:
		b, ok := b.(Raw)
		return ok && a == b
	case Number:
		b, ok := b.(Number)
		return ok && numbersEqual(a, b)
	case *Object:
		b, ok := b.(*Object)
		return ok && objectsEqual(a, b)
	case *Array:
		b, ok := b.(*Array)
		return ok && arraysEqual(a, b)
	}
	return false
}

func numbersEqual(a, b Number) bool {
	an, am, aok := integerParts(a)
	bn, bm, bok := integerParts(b)
	if aok && bok {
		if am == 0 && bm == 0 {
			return true
		}
		return an == bn && am == bm
	}
	ad, bd := a.Decimal(), b.Decimal()
	if ad == nil || bd == nil {
		// only the same digits are known to be equal
		x, xok := a.(Double)
		y, yok := b.(Double)
		return xok && yok && x.rep == y.rep
	}
	return ad.Cmp(bd) == 0
}

func objectsEqual(a, b *Object) bool {
	if a.Len() != b.Len() {
		return false
	}
	for k, av := range a.members {
		bv, ok := b.members[k]
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}

func arraysEqual(a, b *Array) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i, e := range a.elements {
		if !Equal(e, b.elements[i]) {
			return false
		}
	}
	return true
}
