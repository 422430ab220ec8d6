package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := mustParse(t, OPSET_DEFAULT,
		"; header",
		"cpy 1 a",
		"",
		"inc a",
		"jnz a -1",
	)

	dbg := prog.Debug(0)
	assert.NotNil(dbg.Opcode)
	assert.Equal(2, dbg.Opcode.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(1)
	assert.NotNil(dbg.Opcode)
	assert.Equal(4, dbg.Opcode.LineNo)
	assert.Equal(1, dbg.Index)

	dbg = prog.Debug(2)
	assert.NotNil(dbg.Opcode)
	assert.Equal(5, dbg.Opcode.LineNo)
	assert.Equal([]string{"jnz", "a", "-1"}, dbg.Words)
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := mustParse(t, OPSET_DEFAULT, "inc a")

	dbg := prog.Debug(10)
	assert.Nil(dbg.Opcode)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(-1)
	assert.Nil(dbg.Opcode)
}

func TestProgram_Codes(t *testing.T) {
	assert := assert.New(t)

	prog := mustParse(t, OPSET_DEFAULT, "inc a", "dec b", "tgl c")

	var ips []int
	var codes []Code
	for ip, code := range prog.Codes() {
		ips = append(ips, ip)
		codes = append(codes, code)
	}

	assert.Equal([]int{0, 1, 2}, ips)
	assert.Equal([]Code{MakeCodeInc(REG_A), MakeCodeDec(REG_B), MakeCodeTgl(REG_C)}, codes)

	// Early exit
	for ip := range prog.Codes() {
		assert.Equal(0, ip)
		break
	}
}

func TestProgram_Listing(t *testing.T) {
	assert := assert.New(t)

	prog := mustParse(t, OPSET_DEFAULT, "cpy 1 a", "", "jnz a -1")

	assert.Equal("0001    0: cpy 1 a\n0003    1: jnz a -1\n", prog.Listing())
}

func TestRegisters(t *testing.T) {
	assert := assert.New(t)

	var regs Registers
	for reg := range REGISTER_COUNT {
		assert.Equal(0, regs.Get(Register(reg)))
	}

	regs.Set(REG_B, 7)
	regs.Set(REG_D, -2)
	assert.Equal("a=0 b=7 c=0 d=-2", regs.String())

	count := 0
	for reg, value := range regs.All() {
		assert.True(reg.Valid())
		assert.Equal(regs.Get(reg), value)
		count++
	}
	assert.Equal(REGISTER_COUNT, count)
}

func TestParseOverride(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		text string
		ovr  Override
		err  error
	}){
		{"a=7", Override{REG_A, 7}, nil},
		{"d = -12", Override{REG_D, -12}, nil},
		{"e=1", Override{}, ErrRegisterInvalid},
		{"b=x", Override{REG_B, 0}, ErrParseNumber("x")},
		{"c", Override{}, ErrOpcodeValueMissing},
	}

	for _, entry := range table {
		ovr, err := ParseOverride(entry.text)
		if entry.err != nil {
			assert.ErrorIs(err, entry.err, entry.text)
			continue
		}
		assert.NoError(err, entry.text)
		assert.Equal(entry.ovr, ovr, entry.text)
		assert.Equal(entry.ovr.String(), strings.ReplaceAll(entry.text, " ", ""))
	}
}

func TestParseValue(t *testing.T) {
	assert := assert.New(t)

	value, err := ParseValue("c")
	assert.NoError(err)
	reg, ok := value.Register()
	assert.True(ok)
	assert.Equal(REG_C, reg)
	_, ok = value.Constant()
	assert.False(ok)

	value, err = ParseValue("-41")
	assert.NoError(err)
	constant, ok := value.Constant()
	assert.True(ok)
	assert.Equal(-41, constant)
	assert.Equal("-41", value.String())

	_, err = ParseValue("+5")
	assert.NoError(err)

	_, err = ParseValue("five")
	assert.ErrorIs(err, ErrParseNumber("five"))
}
