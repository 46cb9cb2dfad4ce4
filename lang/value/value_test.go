package value_test

import (
	"math"
	"testing"

	"github.com/emberlang/ember/lang/value"
	"github.com/stretchr/testify/assert"
)

func TestTruthy(t *testing.T) {
	assert.False(t, value.Truthy(value.NilValue))
	assert.False(t, value.Truthy(value.False))
	assert.True(t, value.Truthy(value.True))
	assert.True(t, value.Truthy(value.Number(0)))
	assert.True(t, value.Truthy(value.NewString("")))
}

func TestEqualNaN(t *testing.T) {
	nan := value.Number(math.NaN())
	assert.False(t, value.Equal(nan, nan))
}

func TestEqualNumber(t *testing.T) {
	assert.True(t, value.Equal(value.Number(1), value.Number(1)))
	assert.False(t, value.Equal(value.Number(1), value.Number(2)))
}

func TestEqualObjIdentity(t *testing.T) {
	a := value.NewString("hi")
	b := value.NewString("hi")
	assert.False(t, value.Equal(a, b), "distinct *String allocations are not equal without interning")
	assert.True(t, value.Equal(a, a))
}

func TestPrintedForms(t *testing.T) {
	assert.Equal(t, "nil", value.NilValue.String())
	assert.Equal(t, "true", value.True.String())
	assert.Equal(t, "false", value.False.String())
	assert.Equal(t, "1.5", value.Number(1.5).String())
	assert.Equal(t, "hi", value.NewString("hi").String())
}

func TestFunctionPrintedForm(t *testing.T) {
	anon := value.NewFunction(nil)
	assert.Equal(t, "<script>", anon.String())

	named := value.NewFunction(value.NewString("add"))
	assert.Equal(t, "<fn add>", named.String())
}

func TestClassAndInstancePrintedForms(t *testing.T) {
	cls := value.NewClass(value.NewString("Pair"))
	assert.Equal(t, "<class Pair>", cls.String())

	inst := value.NewInstance(cls)
	assert.Equal(t, "<Pair instance>", inst.String())
}
