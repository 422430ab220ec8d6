package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fuzzValue(isReg bool, n int) Value {
	if isReg {
		return RegisterValue(Register(n & 3))
	}
	return ConstantValue(n)
}

func FuzzToggle(f *testing.F) {
	for op := range 5 {
		f.Add(uint8(op), false, 0, true, 1, int8(0))
		f.Add(uint8(op), true, 2, false, -3, int8(-1))
		f.Add(uint8(op), true, 1, true, 3, int8(4))
	}

	f.Fuzz(func(t *testing.T, op uint8, aReg bool, a int, bReg bool, b int, offset int8) {
		assert := assert.New(t)

		var code Code
		switch CodeOp(op % 5) {
		case OP_CPY:
			code = MakeCodeCpy(fuzzValue(aReg, a), Register(b&3))
		case OP_INC:
			code = MakeCodeInc(Register(a & 3))
		case OP_DEC:
			code = MakeCodeDec(Register(a & 3))
		case OP_JNZ:
			code = MakeCodeJnz(fuzzValue(aReg, a), fuzzValue(bReg, b))
		case OP_TGL:
			code = MakeCodeTgl(Register(a & 3))
		}

		toggled, err := code.Toggle()
		assert.NoError(err)
		assert.Equal(code.Args(), toggled.Args())
		if toggled.Invalid {
			assert.Equal(OP_JNZ, toggled.Op)
			assert.False(toggled.B.IsRegister())
		}
		if toggled.Op == OP_CPY {
			assert.True(toggled.B.IsRegister())
		}

		// Toggling a program never panics, and out of range toggles change nothing.
		program := []Code{code, MakeCodeTgl(REG_A), code}
		cpu := &Cpu{Ip: 1, Code: program}
		cpu.Register.Set(REG_A, int(offset))
		before := cpu.Clone()

		err = cpu.Tick()
		assert.NoError(err)
		assert.Equal(2, cpu.Ip)

		target := 1 + int(offset)
		for n := range program {
			if n == target && n == 1 {
				assert.Equal(MakeCodeInc(REG_A), cpu.Code[n])
			} else if n == target {
				assert.Equal(toggled, cpu.Code[n])
			} else {
				assert.Equal(before.Code[n], cpu.Code[n])
			}
		}
	})
}

func FuzzAssembler(f *testing.F) {
	f.Add("cpy 41 a\ninc a\ninc a\ndec a\njnz a 2\ndec a")
	f.Add("cpy 2 a\ntgl a\ntgl a\ntgl a\ncpy 1 a\ndec a\ndec a")
	f.Add("out a\njnz 1 -1")
	f.Add("cpy a")
	f.Add("jnz -9223372036854775808 c ; comment")

	f.Fuzz(func(t *testing.T, text string) {
		assert := assert.New(t)

		asm := &Assembler{Opcodes: OPSET_OUTPUT}
		prog, err := asm.Parse(strings.NewReader(text))
		if err != nil {
			var se *ErrSyntax
			assert.True(errors.As(err, &se))
			assert.Nil(prog)
			return
		}

		// Parsed programs run deterministically.
		cpu := NewCpu(prog, Override{REG_A, 3})
		cpu.TickLimit = 1000

		first, err1 := cpu.RunBounded(10)
		second, err2 := cpu.RunBounded(10)
		assert.Equal(err1 == nil, err2 == nil)
		assert.Equal(first.Register, second.Register)
		assert.Equal(first.Output, second.Output)
		assert.LessOrEqual(len(first.Output), 11)
	})
}
