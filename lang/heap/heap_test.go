package heap_test

import (
	"testing"

	"github.com/emberlang/ember/lang/heap"
	"github.com/emberlang/ember/lang/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternStringDedupes(t *testing.T) {
	h := heap.New()
	a := h.InternString("hi")
	b := h.InternString("hi")
	assert.Same(t, a, b)

	c := h.InternString("bye")
	assert.NotSame(t, a, c)
}

func TestInternStringInitAlwaysInterned(t *testing.T) {
	h := heap.New()
	require.NotNil(t, h.InitString)
	assert.Equal(t, "init", h.InitString.Chars)
	assert.Same(t, h.InitString, h.InternString("init"))
}

func TestNewInstanceFieldsStartEmpty(t *testing.T) {
	h := heap.New()
	cls := h.NewClass(h.InternString("Pair"))
	inst := h.NewInstance(cls)
	assert.Equal(t, 0, inst.Fields.Len())
	assert.Same(t, cls, inst.Class)
}

// fakeRoots lets tests control exactly what the collector considers live.
type fakeRoots struct {
	values []value.Value
}

func (r *fakeRoots) GCRoots(mark func(value.Value)) {
	for _, v := range r.values {
		mark(v)
	}
}

func TestCollectFreesUnreachableStrings(t *testing.T) {
	h := heap.New()
	kept := h.InternString("kept")
	h.InternString("garbage")

	roots := &fakeRoots{values: []value.Value{kept}}
	h.AddRoot(roots)

	h.Collect()

	// the interned "garbage" string is gone: a later InternString call for
	// the same content must allocate a fresh string, not return a dangling one.
	again := h.InternString("garbage")
	assert.Equal(t, "garbage", again.Chars)
	assert.Same(t, kept, h.InternString("kept"))
}

func TestCollectKeepsReachableGraph(t *testing.T) {
	h := heap.New()
	cls := h.NewClass(h.InternString("Counter"))
	fn := h.NewFunction(h.InternString("inc"))
	closure := h.NewClosure(fn)
	cls.Methods.Set(h.InternString("inc"), closure)
	inst := h.NewInstance(cls)

	roots := &fakeRoots{values: []value.Value{inst}}
	h.AddRoot(roots)

	h.Collect()

	got, ok := inst.Class.Methods.Get(h.InternString("inc"))
	require.True(t, ok)
	assert.Same(t, closure, got)
}

func TestStressGCCollectsOnEveryAllocation(t *testing.T) {
	h := heap.New()
	h.SetStressGC(true)

	roots := &fakeRoots{}
	h.AddRoot(roots)

	// nothing is rooted, so every allocation should be immediately
	// collectible; this must not panic or leave dangling state.
	for i := 0; i < 50; i++ {
		h.InternString("throwaway")
		h.NewFunction(nil)
	}
}

func TestCollectReducesBytesAllocated(t *testing.T) {
	h := heap.New()
	h.SetMinHeap(1)
	roots := &fakeRoots{}
	h.AddRoot(roots)

	h.InternString("a")
	before := h.BytesAllocated()
	h.Collect()
	assert.Less(t, h.BytesAllocated(), before, "unrooted string must be swept")
}
