package compiler_test

import (
	"strings"
	"testing"

	"github.com/emberlang/ember/lang/compiler"
	"github.com/emberlang/ember/lang/heap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileSimpleExpressionStatement(t *testing.T) {
	h := heap.New()
	fn, errs := compiler.New(h).Compile([]byte(`print 1 + 2 * 3;`))
	require.Empty(t, errs)
	require.NotNil(t, fn)
}

func TestCompileReportsSyntaxError(t *testing.T) {
	h := heap.New()
	fn, errs := compiler.New(h).Compile([]byte(`var = 1;`))
	assert.Nil(t, fn)
	require.NotEmpty(t, errs)
}

func TestCompileAccumulatesMultipleErrors(t *testing.T) {
	h := heap.New()
	_, errs := compiler.New(h).Compile([]byte("var 1 = 2;\nvar 3 = 4;"))
	assert.GreaterOrEqual(t, len(errs), 2, "panic-mode recovery should let both errors surface")
}

func TestCompileUndefinedAssignmentTarget(t *testing.T) {
	h := heap.New()
	_, errs := compiler.New(h).Compile([]byte(`1 + 2 = 3;`))
	require.NotEmpty(t, errs)
}

func TestDisassembleIsDeterministic(t *testing.T) {
	src := `fun add(a, b) { return a + b; } print add(1, 2);`
	h1 := heap.New()
	fn1, errs1 := compiler.New(h1).Compile([]byte(src))
	require.Empty(t, errs1)

	h2 := heap.New()
	fn2, errs2 := compiler.New(h2).Compile([]byte(src))
	require.Empty(t, errs2)

	var b1, b2 strings.Builder
	compiler.Disassemble(&b1, &fn1.Chunk, "script")
	compiler.Disassemble(&b2, &fn2.Chunk, "script")
	assert.Equal(t, b1.String(), b2.String())
}

func TestCompileClosureCapturesLocal(t *testing.T) {
	h := heap.New()
	src := `fun make() { var x = 0; fun inc() { x = x + 1; return x; } return inc; }`
	fn, errs := compiler.New(h).Compile([]byte(src))
	require.Empty(t, errs)
	require.NotNil(t, fn)
}
