// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

// Toggle returns the instruction that code becomes when hit by a tgl.
//
//	cpy A B  -> jnz A B
//	inc A    -> dec A
//	dec A    -> inc A
//	tgl A    -> inc A
//	jnz A B  -> cpy A B     ; when B is a register
//	jnz A n  -> jnz A n     ; disabled, when the offset n is a constant
//	jnz A B  -> jnz A B     ; enabled again, when previously disabled
//
// An out instruction cannot be toggled.
func (code Code) Toggle() (toggled Code, err error) {
	switch code.Op {
	case OP_CPY:
		toggled = Code{Op: OP_JNZ, A: code.A, B: code.B}
	case OP_INC:
		toggled = Code{Op: OP_DEC, A: code.A}
	case OP_DEC:
		toggled = Code{Op: OP_INC, A: code.A}
	case OP_TGL:
		toggled = Code{Op: OP_INC, A: code.A}
	case OP_JNZ:
		switch {
		case code.Invalid:
			toggled = Code{Op: OP_JNZ, A: code.A, B: code.B}
		case code.B.IsRegister():
			toggled = Code{Op: OP_CPY, A: code.A, B: code.B}
		default:
			toggled = Code{Op: OP_JNZ, A: code.A, B: code.B, Invalid: true}
		}
	default:
		err = ErrToggleInvalid
	}

	return
}
