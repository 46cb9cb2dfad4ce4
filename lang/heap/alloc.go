package heap

import "github.com/emberlang/ember/lang/value"

// InternString returns the canonical *value.String for s, allocating and
// interning a new one if no equal-content string exists yet (§4.3). Every
// string construction in ember — literal, identifier, concatenation result
// — must go through this, never value.NewString directly, or the identity
// invariant string equality depends on breaks.
func (h *Heap) InternString(s string) *value.String {
	hash := value.FNV1a32(s)
	if found := h.intern.FindString(s, hash); found != nil {
		return found
	}

	h.MaybeCollect()
	str := value.NewString(s)
	h.track(str, approxSize(value.ObjString, len(s)))
	h.intern.Set(str, value.True)
	return str
}

// NewFunction allocates a Function prototype. name must already be interned
// (or nil, for the implicit top-level script function).
func (h *Heap) NewFunction(name *value.String) *value.Function {
	h.MaybeCollect(rootValue(name))
	fn := value.NewFunction(name)
	h.track(fn, approxSize(value.ObjFunction, 0))
	return fn
}

// NewNative allocates a host-implemented function.
func (h *Heap) NewNative(name string, arity int, fn value.NativeFn) *value.Native {
	h.MaybeCollect()
	native := value.NewNative(name, arity, fn)
	h.track(native, approxSize(value.ObjNative, 0))
	return native
}

// NewUpvalue allocates an open Upvalue aliasing the given stack slot.
func (h *Heap) NewUpvalue(slot *value.Value, index int) *value.Upvalue {
	h.MaybeCollect()
	uv := value.NewUpvalue(slot, index)
	h.track(uv, approxSize(value.ObjUpvalue, 0))
	return uv
}

// NewClosure allocates a Closure over fn, with an empty Upvalues slice ready
// for the CLOSURE instruction to populate.
func (h *Heap) NewClosure(fn *value.Function) *value.Closure {
	h.MaybeCollect(rootValue(fn))
	cl := value.NewClosure(fn)
	h.track(cl, approxSize(value.ObjClosure, 0))
	return cl
}

// NewClass allocates an empty Class. name must already be interned.
func (h *Heap) NewClass(name *value.String) *value.Class {
	h.MaybeCollect(rootValue(name))
	cls := value.NewClass(name)
	h.track(cls, approxSize(value.ObjClass, 0))
	return cls
}

// NewInstance allocates an Instance of class with an empty field table.
func (h *Heap) NewInstance(class *value.Class) *value.Instance {
	h.MaybeCollect(rootValue(class))
	inst := value.NewInstance(class)
	h.track(inst, approxSize(value.ObjInstance, 0))
	return inst
}

// NewBoundMethod allocates a BoundMethod pairing receiver with method.
func (h *Heap) NewBoundMethod(receiver value.Value, method *value.Closure) *value.BoundMethod {
	h.MaybeCollect(receiver, rootValue(method))
	bm := value.NewBoundMethod(receiver, method)
	h.track(bm, approxSize(value.ObjBoundMethod, 0))
	return bm
}

// rootValue lifts a possibly-nil *T into a value.Value, returning NilValue
// for a nil pointer rather than a non-nil interface wrapping a nil pointer
// (the classic Go typed-nil trap) so MaybeCollect's extra-roots list never
// holds a value that panics when marked.
func rootValue[T value.Obj](obj T) value.Value {
	if any(obj) == any((T)(nil)) {
		return value.NilValue
	}
	return obj
}
