// Package heap implements the managed heap: allocation, string interning,
// and the precise mark-sweep collector every heap object is subject to.
package heap

import "github.com/emberlang/ember/lang/value"

// GrowthFactor is the multiplier applied to bytes_allocated to compute the
// next collection threshold.
const GrowthFactor = 2

// DefaultMinHeap is the floor next_gc never drops below, even immediately
// after a collection frees almost everything.
const DefaultMinHeap = 1 << 20 // 1 MiB

// RootSource is registered with a Heap to contribute additional GC roots
// during the mark phase. The vm package registers itself once, for the
// lifetime of a VM; the compiler package registers itself only while a
// compile is in flight, since a collection can land mid-compilation with
// just-built constants not yet reachable from any other root (§4.5).
type RootSource interface {
	GCRoots(mark func(value.Value))
}

// Heap owns every live allocation, the string intern set, and the collector
// that reclaims unreachable objects. A Heap is not safe for concurrent use;
// each VM owns exactly one (§5).
type Heap struct {
	head   value.Obj    // head of the intrusive allocation list; Header.Next threads the rest
	intern *value.Table // content-keyed string intern set (§4.3)

	// InitString is the interned "init" constant, always rooted: the VM's
	// class-instantiation lowering looks up this name on every CALL whose
	// callee is a Class, whether or not user code ever spells "init" as an
	// identifier.
	InitString *value.String

	bytesAllocated int
	nextGC         int
	minHeap        int
	growthFactor   float64
	stressGC       bool

	roots []RootSource
	grey  []value.Obj // worklist of marked-but-not-yet-blackened objects
}

// New returns an empty Heap ready to allocate from.
func New() *Heap {
	h := &Heap{
		intern:       value.NewTable(),
		nextGC:       DefaultMinHeap,
		minHeap:      DefaultMinHeap,
		growthFactor: GrowthFactor,
	}
	h.InitString = h.InternString("init")
	return h
}

// SetStressGC toggles the debug switch that forces a collection before every
// allocation (§4.5), regardless of bytes_allocated.
func (h *Heap) SetStressGC(on bool) { h.stressGC = on }

// SetMinHeap overrides the floor next_gc never drops below.
func (h *Heap) SetMinHeap(n int) {
	h.minHeap = n
	if h.nextGC < n {
		h.nextGC = n
	}
}

// SetGrowthFactor overrides the multiplier applied to bytes_allocated when
// computing the next collection threshold (default GrowthFactor).
func (h *Heap) SetGrowthFactor(f float64) { h.growthFactor = f }

// AddRoot registers an additional root source. The vm package calls this
// once at construction; the compiler calls it when it begins compiling and
// removes it (via RemoveRoot) when compilation finishes.
func (h *Heap) AddRoot(rs RootSource) {
	h.roots = append(h.roots, rs)
}

// RemoveRoot unregisters a root source previously passed to AddRoot.
func (h *Heap) RemoveRoot(rs RootSource) {
	for i, r := range h.roots {
		if r == rs {
			h.roots = append(h.roots[:i], h.roots[i+1:]...)
			return
		}
	}
}

// BytesAllocated reports the collector's running estimate of live heap size.
func (h *Heap) BytesAllocated() int { return h.bytesAllocated }

// NextGC reports the threshold that triggers the next collection.
func (h *Heap) NextGC() int { return h.nextGC }

// track links a freshly allocated object into the heap list and charges its
// approximate size against bytesAllocated.
func (h *Heap) track(obj value.Obj, size int) {
	hdr := obj.ObjHeader()
	hdr.Next = h.head
	hdr.Size = size
	h.head = obj
	h.bytesAllocated += size
}

// approxSize estimates an object's footprint for GC-pacing purposes. Ember
// doesn't have clox's manual malloc bookkeeping, so rather than instrument
// every allocation site with unsafe.Sizeof (fragile across field changes),
// each kind gets a nominal size that reflects its relative weight; this
// keeps the threshold-doubling behavior of §4.5 without depending on Go
// runtime internals.
func approxSize(kind value.ObjKind, extra int) int {
	const wordSize = 8
	base := map[value.ObjKind]int{
		value.ObjString:      3 * wordSize,
		value.ObjFunction:    6 * wordSize,
		value.ObjNative:      4 * wordSize,
		value.ObjUpvalue:     4 * wordSize,
		value.ObjClosure:     3 * wordSize,
		value.ObjClass:       3 * wordSize,
		value.ObjInstance:    3 * wordSize,
		value.ObjBoundMethod: 3 * wordSize,
	}[kind]
	return base + extra
}
