package vm

import (
	"github.com/emberlang/ember/lang/value"
	"github.com/mna/swiss"
)

// nativeCache memoizes the host-implemented functions a VM has installed,
// keyed by name. It exists alongside the globals table rather than
// replacing it: globals is the open-addressed table (§4.4) that scripts
// read through GET_GLOBAL, while nativeCache is purely an implementation-
// side lookup natives.go and future host-function registration use to
// avoid re-allocating an already-installed native.
type nativeCache struct {
	m *swiss.Map[string, *value.Native]
}

func newNativeCache() *nativeCache {
	return &nativeCache{m: swiss.NewMap[string, *value.Native](8)}
}

func (c *nativeCache) get(name string) (*value.Native, bool) {
	return c.m.Get(name)
}

func (c *nativeCache) put(name string, n *value.Native) {
	c.m.Put(name, n)
}
