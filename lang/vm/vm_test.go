package vm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/emberlang/ember/lang/compiler"
	"github.com/emberlang/ember/lang/heap"
	"github.com/emberlang/ember/lang/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run compiles and interprets src, returning everything PRINT wrote.
func run(t *testing.T, h *heap.Heap, src string) string {
	t.Helper()
	fn, errs := compiler.New(h).Compile([]byte(src))
	require.Empty(t, errs)
	require.NotNil(t, fn)

	var out bytes.Buffer
	machine := vm.New(h, &out)
	_, rerr := machine.Interpret(fn)
	require.Nil(t, rerr, "unexpected runtime error: %v", rerr)
	return out.String()
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestArithmeticPrecedence(t *testing.T) {
	out := run(t, heap.New(), `print 1 + 2 * 3;`)
	assert.Equal(t, []string{"7"}, lines(out))
}

func TestStringInterningEquality(t *testing.T) {
	out := run(t, heap.New(), `
		var a = "hi" + "!";
		var b = "hi!";
		print a == b;
	`)
	assert.Equal(t, []string{"true"}, lines(out))
}

func TestClosuresCaptureUpvaluesIndependently(t *testing.T) {
	out := run(t, heap.New(), `
		fun makeCounter() {
			var count = 0;
			fun increment() {
				count = count + 1;
				return count;
			}
			return increment;
		}
		var counter = makeCounter();
		print counter();
		print counter();
	`)
	assert.Equal(t, []string{"1", "2"}, lines(out))
}

func TestClassInheritanceDispatch(t *testing.T) {
	out := run(t, heap.New(), `
		class Greeter {
			greet() {
				return "hi";
			}
		}
		class LoudGreeter < Greeter {}
		var g = LoudGreeter();
		print g.greet();
	`)
	assert.Equal(t, []string{"hi"}, lines(out))
}

func TestForLoopSum(t *testing.T) {
	out := run(t, heap.New(), `
		var sum = 0;
		for (var i = 0; i < 1000; i = i + 1) {
			sum = sum + i;
		}
		print sum;
	`)
	assert.Equal(t, []string{"499500"}, lines(out))
}

func TestClassInitBindsConstructorArguments(t *testing.T) {
	out := run(t, heap.New(), `
		class Box {
			init(value) {
				this.value = value;
			}
			get() {
				return this.value;
			}
		}
		var b = Box(42);
		print b.get();
	`)
	assert.Equal(t, []string{"42"}, lines(out))
}

func TestForLoopSumUnderStressGC(t *testing.T) {
	h := heap.New()
	h.SetStressGC(true)
	out := run(t, h, `
		var sum = 0;
		for (var i = 0; i < 1000; i = i + 1) {
			sum = sum + i;
		}
		print sum;
	`)
	assert.Equal(t, []string{"499500"}, lines(out))
}

func TestUndefinedGlobalIsRuntimeError(t *testing.T) {
	h := heap.New()
	fn, errs := compiler.New(h).Compile([]byte(`print nope;`))
	require.Empty(t, errs)

	var out bytes.Buffer
	machine := vm.New(h, &out)
	_, rerr := machine.Interpret(fn)
	require.NotNil(t, rerr)
	assert.Contains(t, rerr.Error(), "undefined variable")
}

func TestNativeClockReturnsNumber(t *testing.T) {
	out := run(t, heap.New(), `print clock() > 0;`)
	assert.Equal(t, []string{"true"}, lines(out))
}
