package value

// Upvalue is an indirection cell that, while open, aliases a slot in the
// value stack, and after closing, owns a heap-allocated copy of that slot's
// value. At most one open Upvalue exists per stack slot at a time (§3.2).
type Upvalue struct {
	Header
	StackIndex int // slot index when open; meaningless once closed
	Location   *Value
	closed     Value
	Next       *Upvalue // next node in the VM's open-upvalue list
}

// NewUpvalue creates an open Upvalue aliasing the given stack slot.
func NewUpvalue(slot *Value, index int) *Upvalue {
	return &Upvalue{Header: Header{Kind: ObjUpvalue}, StackIndex: index, Location: slot}
}

// IsOpen reports whether the upvalue still aliases a stack slot.
func (u *Upvalue) IsOpen() bool { return u.Location != &u.closed }

// Get returns the upvalue's current value, open or closed.
func (u *Upvalue) Get() Value { return *u.Location }

// Set writes through the upvalue, open or closed.
func (u *Upvalue) Set(v Value) { *u.Location = v }

// Close copies the aliased stack value into the upvalue's own storage and
// redirects Location there, so the upvalue survives the stack slot's reuse.
func (u *Upvalue) Close() {
	u.closed = *u.Location
	u.Location = &u.closed
}

func (*Upvalue) String() string { return "upvalue" }
func (*Upvalue) Type() string   { return "upvalue" }
