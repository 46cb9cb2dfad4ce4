package value

// ObjKind identifies the variant of a heap object. The order matches the
// clox object tag set this machine's heap model is grounded on.
type ObjKind uint8

const (
	ObjString ObjKind = iota
	ObjFunction
	ObjNative
	ObjUpvalue
	ObjClosure
	ObjClass
	ObjInstance
	ObjBoundMethod
)

func (k ObjKind) String() string {
	switch k {
	case ObjString:
		return "string"
	case ObjFunction:
		return "function"
	case ObjNative:
		return "native"
	case ObjUpvalue:
		return "upvalue"
	case ObjClosure:
		return "closure"
	case ObjClass:
		return "class"
	case ObjInstance:
		return "instance"
	case ObjBoundMethod:
		return "bound method"
	default:
		return "unknown object"
	}
}

// Header is the common fields every heap object carries. Next threads every
// live allocation into the singly-linked list owned by the heap, the list
// that sweep walks to free unmarked objects. Size is the heap package's
// bookkeeping of this object's charge against bytes_allocated, recorded
// here (rather than a side table) so sweep can debit it without needing a
// type switch of its own.
type Header struct {
	Kind   ObjKind
	Marked bool
	Size   int
	Next   Obj
}

// ObjHeader returns the object's header so the heap package can thread it
// into the allocation list and mark/sweep it without needing a type switch
// on every concrete object kind.
func (h *Header) ObjHeader() *Header { return h }

// Obj is implemented by every heap-allocated value.
type Obj interface {
	Value
	ObjHeader() *Header
}

var (
	_ Obj = (*String)(nil)
	_ Obj = (*Function)(nil)
	_ Obj = (*Native)(nil)
	_ Obj = (*Upvalue)(nil)
	_ Obj = (*Closure)(nil)
	_ Obj = (*Class)(nil)
	_ Obj = (*Instance)(nil)
	_ Obj = (*BoundMethod)(nil)
)
