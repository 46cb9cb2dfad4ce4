// Package opcode defines the instruction set the compiler emits into a
// value.Chunk and the vm dispatch loop decodes. It is a leaf package: it may
// not import lang/compiler or lang/vm, so that neither of those packages
// needs to import the other through it.
package opcode

// Opcode is a single bytecode instruction's tag byte.
type Opcode uint8

// "x CONSTANT v" is a stack picture: the state of the operand stack before
// and after the instruction runs. <const8>/<const24> denote an immediate
// operand that indexes the chunk's constant pool, in its short (1-byte) or
// long (3-byte, big-endian) form; the compiler picks short whenever the
// index still fits in a byte (§6). On the LOCAL and UPVALUE opcodes,
// <u8>/<u24> are a local slot or upvalue index in the same two forms.
// Elsewhere <u8>/<u16> denote raw immediate operands (counts and offsets).
const (
	CONSTANT      Opcode = iota //  - CONSTANT<const8>  v
	CONSTANT_LONG               //  - CONSTANT_LONG<const24>  v

	NIL   //   - NIL   nil
	TRUE  //   - TRUE  true
	FALSE //   - FALSE false

	POP  //   v POP  -
	POPN //   v... POPN<u8>  -     pops the top <u8> values

	GET_LOCAL       //  - GET_LOCAL<u8>  v
	GET_LOCAL_LONG  //  - GET_LOCAL_LONG<u24>  v
	SET_LOCAL       //  v SET_LOCAL<u8>  v
	SET_LOCAL_LONG  //  v SET_LOCAL_LONG<u24>  v

	GET_GLOBAL        //  - GET_GLOBAL<const8>  v
	GET_GLOBAL_LONG   //  - GET_GLOBAL_LONG<const24>  v
	DEFINE_GLOBAL     //  v DEFINE_GLOBAL<const8>  -
	DEFINE_GLOBAL_LONG //  v DEFINE_GLOBAL_LONG<const24>  -
	SET_GLOBAL        //  v SET_GLOBAL<const8>  v
	SET_GLOBAL_LONG   //  v SET_GLOBAL_LONG<const24>  v

	GET_UPVALUE      //  - GET_UPVALUE<u8>  v
	GET_UPVALUE_LONG //  - GET_UPVALUE_LONG<u24>  v
	SET_UPVALUE      //  v SET_UPVALUE<u8>  v
	SET_UPVALUE_LONG //  v SET_UPVALUE_LONG<u24>  v

	GET_PROPERTY      //  instance GET_PROPERTY<const8>  v
	GET_PROPERTY_LONG //  instance GET_PROPERTY_LONG<const24>  v
	SET_PROPERTY      //  instance v SET_PROPERTY<const8>  v
	SET_PROPERTY_LONG //  instance v SET_PROPERTY_LONG<const24>  v
	GET_SUPER         //  instance superclass GET_SUPER<const8>  bound-method
	GET_SUPER_LONG    //  instance superclass GET_SUPER_LONG<const24>  bound-method

	EQUAL    //  a b EQUAL     bool
	GREATER  //  a b GREATER   bool
	LESS     //  a b LESS      bool
	ADD      //  a b ADD       v
	SUBTRACT //  a b SUBTRACT  v
	MULTIPLY //  a b MULTIPLY  v
	DIVIDE   //  a b DIVIDE    v
	NOT      //  v NOT         bool
	NEGATE   //  v NEGATE      -v

	PRINT //  v PRINT  -

	JUMP          //  - JUMP<u16>          -      unconditional, relative forward
	JUMP_IF_FALSE //  v JUMP_IF_FALSE<u16> v      conditional, relative forward, does not pop
	LOOP          //  - LOOP<u16>          -      unconditional, relative backward

	CALL //  callee arg1..argN CALL<u8=argCount>  result

	INVOKE           //  receiver arg1..argN INVOKE<const8><u8=argCount>  result
	INVOKE_LONG      //  receiver arg1..argN INVOKE_LONG<const24><u8=argCount>  result
	SUPER_INVOKE      //  receiver arg1..argN superclass SUPER_INVOKE<const8><u8=argCount>  result
	SUPER_INVOKE_LONG //  receiver arg1..argN superclass SUPER_INVOKE_LONG<const24><u8=argCount>  result

	CLOSURE       //  - CLOSURE<const8> <upvalue-descriptors...>  closure
	CLOSURE_LONG  //  - CLOSURE_LONG<const24> <upvalue-descriptors...>  closure
	CLOSE_UPVALUE //  v CLOSE_UPVALUE  -
	RETURN        //  v RETURN  -      (caller frame) v

	CLASS        //  - CLASS<const8>  class
	CLASS_LONG   //  - CLASS_LONG<const24>  class
	INHERIT      //  superclass subclass INHERIT  superclass      pops only the subclass
	METHOD       //  class closure METHOD<const8>  class
	METHOD_LONG  //  class closure METHOD_LONG<const24>  class
)

var names = [...]string{
	CONSTANT:           "CONSTANT",
	CONSTANT_LONG:      "CONSTANT_LONG",
	NIL:                "NIL",
	TRUE:               "TRUE",
	FALSE:              "FALSE",
	POP:                "POP",
	POPN:               "POPN",
	GET_LOCAL:          "GET_LOCAL",
	GET_LOCAL_LONG:     "GET_LOCAL_LONG",
	SET_LOCAL:          "SET_LOCAL",
	SET_LOCAL_LONG:     "SET_LOCAL_LONG",
	GET_GLOBAL:         "GET_GLOBAL",
	GET_GLOBAL_LONG:    "GET_GLOBAL_LONG",
	DEFINE_GLOBAL:      "DEFINE_GLOBAL",
	DEFINE_GLOBAL_LONG: "DEFINE_GLOBAL_LONG",
	SET_GLOBAL:         "SET_GLOBAL",
	SET_GLOBAL_LONG:    "SET_GLOBAL_LONG",
	GET_UPVALUE:        "GET_UPVALUE",
	GET_UPVALUE_LONG:   "GET_UPVALUE_LONG",
	SET_UPVALUE:        "SET_UPVALUE",
	SET_UPVALUE_LONG:   "SET_UPVALUE_LONG",
	GET_PROPERTY:       "GET_PROPERTY",
	GET_PROPERTY_LONG:  "GET_PROPERTY_LONG",
	SET_PROPERTY:       "SET_PROPERTY",
	SET_PROPERTY_LONG:  "SET_PROPERTY_LONG",
	GET_SUPER:          "GET_SUPER",
	GET_SUPER_LONG:     "GET_SUPER_LONG",
	EQUAL:              "EQUAL",
	GREATER:            "GREATER",
	LESS:               "LESS",
	ADD:                "ADD",
	SUBTRACT:           "SUBTRACT",
	MULTIPLY:           "MULTIPLY",
	DIVIDE:             "DIVIDE",
	NOT:                "NOT",
	NEGATE:             "NEGATE",
	PRINT:              "PRINT",
	JUMP:               "JUMP",
	JUMP_IF_FALSE:      "JUMP_IF_FALSE",
	LOOP:               "LOOP",
	CALL:               "CALL",
	INVOKE:             "INVOKE",
	INVOKE_LONG:        "INVOKE_LONG",
	SUPER_INVOKE:       "SUPER_INVOKE",
	SUPER_INVOKE_LONG:  "SUPER_INVOKE_LONG",
	CLOSURE:            "CLOSURE",
	CLOSURE_LONG:       "CLOSURE_LONG",
	CLOSE_UPVALUE:      "CLOSE_UPVALUE",
	RETURN:             "RETURN",
	CLASS:              "CLASS",
	CLASS_LONG:         "CLASS_LONG",
	INHERIT:            "INHERIT",
	METHOD:             "METHOD",
	METHOD_LONG:        "METHOD_LONG",
}

func (op Opcode) String() string {
	if int(op) < len(names) && names[op] != "" {
		return names[op]
	}
	return "UNKNOWN"
}
