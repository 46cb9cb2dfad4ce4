package value

// Class is a class object: a name plus a method table mapping interned
// method names to their Closure. Classes weakly reference their methods in
// the sense that the GC's mark phase, not reference counting, keeps them
// alive (§3.2).
type Class struct {
	Header
	Name    *String
	Methods *Table
}

// NewClass allocates an unlinked, empty Class.
func NewClass(name *String) *Class {
	return &Class{Header: Header{Kind: ObjClass}, Name: name, Methods: NewTable()}
}

// String renders the §6 printed form "<class name>".
func (c *Class) String() string { return "<class " + c.Name.Chars + ">" }
func (*Class) Type() string     { return "class" }

// Instance is a heap-allocated instance of a Class, holding its own field
// table. Its class is resolved by the GET_PROPERTY/SET_PROPERTY/INVOKE
// opcodes: fields shadow methods.
type Instance struct {
	Header
	Class  *Class
	Fields *Table
}

// NewInstance allocates an unlinked Instance with an empty field table.
func NewInstance(class *Class) *Instance {
	return &Instance{Header: Header{Kind: ObjInstance}, Class: class, Fields: NewTable()}
}

// String renders the §6 printed form "<ClassName instance>".
func (i *Instance) String() string { return "<" + i.Class.Name.Chars + " instance>" }
func (*Instance) Type() string     { return "instance" }

// BoundMethod pairs a receiver value with the Closure it was bound from, the
// value produced by a GET_PROPERTY lookup that resolves to a method, or by
// GET_SUPER.
type BoundMethod struct {
	Header
	Receiver Value
	Method   *Closure
}

// NewBoundMethod allocates an unlinked BoundMethod.
func NewBoundMethod(receiver Value, method *Closure) *BoundMethod {
	return &BoundMethod{Header: Header{Kind: ObjBoundMethod}, Receiver: receiver, Method: method}
}

// BoundMethod prints as its underlying function (§6).
func (b *BoundMethod) String() string { return b.Method.String() }
func (*BoundMethod) Type() string     { return "bound method" }
