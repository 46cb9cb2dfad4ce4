package value

// Closure pairs a compiled Function with the live Upvalue cells it captured
// at the point its CLOSURE instruction ran.
type Closure struct {
	Header
	Fn       *Function
	Upvalues []*Upvalue
}

// NewClosure allocates an unlinked Closure with an Upvalues slice sized to
// fn's upvalue count, ready to be filled in by the CLOSURE instruction.
func NewClosure(fn *Function) *Closure {
	return &Closure{
		Header:   Header{Kind: ObjClosure},
		Fn:       fn,
		Upvalues: make([]*Upvalue, fn.UpvalueCount),
	}
}

func (c *Closure) String() string { return c.Fn.String() }
func (*Closure) Type() string     { return "closure" }
