package jsondoc

// Visitor receives one call per value passed to Accept, selected by the
// value's variant. Implementations recurse into containers themselves.
type Visitor interface {
	VisitString(String)
	VisitBool(Bool)
	VisitNull(Null)
	VisitRaw(Raw)
	VisitInt32(Int32)
	VisitUInt32(UInt32)
	VisitInt64(Int64)
	VisitUInt64(UInt64)
	VisitDouble(Double)
	VisitObject(*Object)
	VisitArray(*Array)
}

// ObjectPropertyVisitor receives the members of an Object, in key order.
type ObjectPropertyVisitor interface {
	VisitProperty(key string, value Value)
}

// Accept dispatches value to visitor. A nil value is ignored.
func Accept(value Value, visitor Visitor) {
	if value == nil {
		return
	}
	value.Accept(visitor)
}

// NopVisitor implements Visitor with methods that do nothing. Embed it to
// handle a subset of the variants.
type NopVisitor struct{}

func (NopVisitor) VisitString(String)  {}
func (NopVisitor) VisitBool(Bool)      {}
func (NopVisitor) VisitNull(Null)      {}
func (NopVisitor) VisitRaw(Raw)        {}
func (NopVisitor) VisitInt32(Int32)    {}
func (NopVisitor) VisitUInt32(UInt32)  {}
func (NopVisitor) VisitInt64(Int64)    {}
func (NopVisitor) VisitUInt64(UInt64)  {}
func (NopVisitor) VisitDouble(Double)  {}
func (NopVisitor) VisitObject(*Object) {}
func (NopVisitor) VisitArray(*Array)   {}

// Validator is a Visitor that records whether the last value it visited was
// acceptable.
type Validator interface {
	Visitor
	IsValid() bool
}

// WildcardValidator accepts every value.
type WildcardValidator struct {
	NopVisitor
}

func (WildcardValidator) IsValid() bool { return true }
