package opcode_test

import (
	"testing"

	"github.com/emberlang/ember/lang/opcode"
	"github.com/stretchr/testify/assert"
)

func TestOpcodeString(t *testing.T) {
	assert.Equal(t, "CONSTANT", opcode.CONSTANT.String())
	assert.Equal(t, "RETURN", opcode.RETURN.String())
	assert.Equal(t, "UNKNOWN", opcode.Opcode(255).String())
}

func TestUint24RoundTrip(t *testing.T) {
	buf := make([]byte, 3)
	opcode.PutUint24(buf, 1<<20|7)
	assert.Equal(t, uint32(1<<20|7), opcode.Uint24(buf))
}

func TestUint16RoundTrip(t *testing.T) {
	buf := make([]byte, 2)
	opcode.PutUint16(buf, 65535)
	assert.Equal(t, uint16(65535), opcode.Uint16(buf))
}
