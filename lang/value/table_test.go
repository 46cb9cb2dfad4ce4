package value_test

import (
	"fmt"
	"testing"

	"github.com/emberlang/ember/lang/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableSetGet(t *testing.T) {
	tbl := value.NewTable()
	k := value.NewString("answer")
	isNew := tbl.Set(k, value.Number(42))
	assert.True(t, isNew)

	got, ok := tbl.Get(k)
	require.True(t, ok)
	assert.Equal(t, value.Number(42), got)

	isNew = tbl.Set(k, value.Number(43))
	assert.False(t, isNew)
	got, ok = tbl.Get(k)
	require.True(t, ok)
	assert.Equal(t, value.Number(43), got)
}

func TestTableGetMissing(t *testing.T) {
	tbl := value.NewTable()
	_, ok := tbl.Get(value.NewString("nope"))
	assert.False(t, ok)
}

func TestTableSetIfExists(t *testing.T) {
	tbl := value.NewTable()
	k := value.NewString("x")
	assert.False(t, tbl.SetIfExists(k, value.Number(1)), "must not auto-create")
	tbl.Set(k, value.Number(0))
	assert.True(t, tbl.SetIfExists(k, value.Number(1)))
	got, _ := tbl.Get(k)
	assert.Equal(t, value.Number(1), got)
}

func TestTableDeleteIsNoopOnMissing(t *testing.T) {
	tbl := value.NewTable()
	assert.False(t, tbl.Delete(value.NewString("ghost")))
}

func TestTableDeleteThenReinsert(t *testing.T) {
	tbl := value.NewTable()
	k := value.NewString("k")
	tbl.Set(k, value.Number(1))
	assert.True(t, tbl.Delete(k))
	_, ok := tbl.Get(k)
	assert.False(t, ok)

	// a distinct *String with the same content hashes to the same bucket and
	// probes past the tombstone, but table lookups are identity-keyed, so
	// this is a fresh insertion, not a match for the deleted key.
	k2 := value.NewString("k")
	isNew := tbl.Set(k2, value.Number(2))
	assert.True(t, isNew)
	got, ok := tbl.Get(k2)
	require.True(t, ok)
	assert.Equal(t, value.Number(2), got)
}

func TestTableGrowsAndRetainsEntries(t *testing.T) {
	tbl := value.NewTable()
	keys := make([]*value.String, 0, 200)
	for i := 0; i < 200; i++ {
		k := value.NewString(fmt.Sprintf("key%d", i))
		keys = append(keys, k)
		tbl.Set(k, value.Number(float64(i)))
	}
	for i, k := range keys {
		got, ok := tbl.Get(k)
		require.True(t, ok)
		assert.Equal(t, value.Number(float64(i)), got)
	}
}

func TestAddAll(t *testing.T) {
	keyA, keyB := value.NewString("a"), value.NewString("b")

	src := value.NewTable()
	src.Set(keyA, value.Number(1))
	src.Set(keyB, value.Number(2))

	dst := value.NewTable()
	dst.Set(keyA, value.Number(99))

	value.AddAll(src, dst)

	got, ok := dst.Get(keyA)
	require.True(t, ok)
	assert.Equal(t, value.Number(1), got, "AddAll overwrites child's entry, matching INHERIT's copy-parent-methods semantics")

	got, ok = dst.Get(keyB)
	require.True(t, ok)
	assert.Equal(t, value.Number(2), got)
}

func TestFindString(t *testing.T) {
	tbl := value.NewTable()
	k := value.NewString("hello")
	tbl.Set(k, value.True)

	found := tbl.FindString("hello", value.FNV1a32("hello"))
	require.NotNil(t, found)
	assert.Same(t, k, found)

	assert.Nil(t, tbl.FindString("goodbye", value.FNV1a32("goodbye")))
}
