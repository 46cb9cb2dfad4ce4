package opcode

// PutUint24 encodes v into a 3-byte big-endian operand, the long-form
// constant-pool index used by CONSTANT_LONG and every other <const24>
// operand once a chunk's constant pool outgrows a single byte.
func PutUint24(b []byte, v uint32) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

// Uint24 decodes a 3-byte big-endian operand written by PutUint24.
func Uint24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// PutUint16 encodes v into a 2-byte big-endian operand, used by JUMP,
// JUMP_IF_FALSE and LOOP's relative offsets.
func PutUint16(b []byte, v uint16) {
	b[0] = byte(v >> 8)
	b[1] = byte(v)
}

// Uint16 decodes a 2-byte big-endian operand written by PutUint16.
func Uint16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}
