package heap

import "github.com/emberlang/ember/lang/value"

// MaybeCollect runs a collection if the stress-GC switch is set or
// bytesAllocated has exceeded nextGC (§4.5's triggering rule), which every
// allocation entrypoint calls before allocating. extra roots the values the
// caller is about to use to build a new object but that aren't yet
// reachable from any other root (e.g. a name or function just popped for a
// NewClosure call) — value.NilValue entries are ignored.
func (h *Heap) MaybeCollect(extra ...value.Value) {
	if h.stressGC || h.bytesAllocated > h.nextGC {
		h.Collect(extra...)
	}
}

// Collect runs one stop-the-world mark-sweep cycle (§4.5 phases 1-4).
func (h *Heap) Collect(extra ...value.Value) {
	h.markRoots(extra)
	h.trace()
	h.sweepIntern()
	h.sweepHeap()

	if next := int(float64(h.bytesAllocated) * h.growthFactor); next > h.minHeap {
		h.nextGC = next
	} else {
		h.nextGC = h.minHeap
	}
}

func (h *Heap) markRoots(extra []value.Value) {
	for _, v := range extra {
		h.markValue(v)
	}
	for _, rs := range h.roots {
		rs.GCRoots(h.markValue)
	}
	h.markObj(h.InitString)
}

func (h *Heap) markValue(v value.Value) {
	if obj, ok := v.(value.Obj); ok {
		h.markObj(obj)
	}
}

// markObj grey-marks obj if it isn't already marked. Callers must not pass a
// possibly-nil concrete pointer wrapped directly in the value.Obj interface
// (use rootValue, or a nil check at the call site) — converting a nil *T to
// an interface produces a non-nil interface, and ObjHeader() on it panics.
func (h *Heap) markObj(obj value.Obj) {
	if obj == nil {
		return
	}
	hdr := obj.ObjHeader()
	if hdr.Marked {
		return
	}
	hdr.Marked = true
	h.grey = append(h.grey, obj)
}

// trace drains the grey worklist, blackening each object by marking its
// children, until no grey objects remain (§4.5 phase 2).
func (h *Heap) trace() {
	for len(h.grey) > 0 {
		obj := h.grey[len(h.grey)-1]
		h.grey = h.grey[:len(h.grey)-1]
		h.blacken(obj)
	}
}

func (h *Heap) blacken(obj value.Obj) {
	switch o := obj.(type) {
	case *value.String:
		// no children
	case *value.Function:
		if o.Name != nil {
			h.markObj(o.Name)
		}
		for _, c := range o.Chunk.Constants {
			h.markValue(c)
		}
	case *value.Native:
		// no children
	case *value.Closure:
		h.markObj(o.Fn)
		for _, uv := range o.Upvalues {
			if uv != nil {
				h.markObj(uv)
			}
		}
	case *value.Upvalue:
		if !o.IsOpen() {
			h.markValue(o.Get())
		}
	case *value.Class:
		h.markObj(o.Name)
		o.Methods.Each(func(k *value.String, v value.Value) {
			h.markObj(k)
			h.markValue(v)
		})
	case *value.Instance:
		h.markObj(o.Class)
		o.Fields.Each(func(k *value.String, v value.Value) {
			h.markObj(k)
			h.markValue(v)
		})
	case *value.BoundMethod:
		h.markValue(o.Receiver)
		h.markObj(o.Method)
	}
}

// sweepIntern deletes every intern-set entry whose key didn't survive the
// mark phase, before the heap sweep frees the underlying object (§4.5 phase
// 3) — otherwise a later InternString call could hand back a dangling key.
func (h *Heap) sweepIntern() {
	h.intern.RemoveWhite(func(s *value.String) bool {
		return s.ObjHeader().Marked
	})
}

// sweepHeap walks the allocation list, drops unmarked objects, and clears
// the mark bit on survivors for the next cycle (§4.5 phase 4).
func (h *Heap) sweepHeap() {
	var prev value.Obj
	obj := h.head
	for obj != nil {
		hdr := obj.ObjHeader()
		next := hdr.Next
		if hdr.Marked {
			hdr.Marked = false
			prev = obj
		} else {
			if prev == nil {
				h.head = next
			} else {
				prev.ObjHeader().Next = next
			}
			h.bytesAllocated -= hdr.Size
		}
		obj = next
	}
}
