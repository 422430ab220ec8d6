package emulator

import (
	"bytes"
	"errors"
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/bunny/cpu"
)

func doParse(t *testing.T, opcodes cpu.OpSet, program []string) *cpu.Program {
	asm := &cpu.Assembler{Opcodes: opcodes}
	prog, err := asm.ParseLines(program)
	if err != nil {
		t.Fatal(err)
	}
	return prog
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(&cpu.Program{})

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)

	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
}

func TestEmulatorLineNo(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"; count to three",
		"cpy 3 b",
		"",
		"inc a ; loop",
		"dec b",
		"jnz b -2",
	}

	emu := NewEmulator(doParse(t, cpu.OPSET_DEFAULT, program))

	var lines []int
	for {
		lineno := emu.LineNo()
		done, err := emu.Tick()
		assert.NoError(err)
		if done {
			break
		}
		lines = append(lines, lineno)
	}

	assert.Equal([]int{2, 4, 5, 6, 4, 5, 6, 4, 5, 6}, lines)
	assert.Equal(0, emu.LineNo())
	assert.Equal(3, emu.Cpu.Register.Get(cpu.REG_A))
}

func TestEmulatorRun(t *testing.T) {
	assert := assert.New(t)

	program := []string{"cpy 2 a", "tgl a", "tgl a", "tgl a", "cpy 1 a", "dec a", "dec a"}

	emu := NewEmulator(doParse(t, cpu.OPSET_DEFAULT, program))
	emu.Overrides = []cpu.Override{{Register: cpu.REG_A, Value: 7}}
	emu.Reset()

	assert.Equal(7, emu.Cpu.Register.Get(cpu.REG_A))
	assert.NoError(emu.Run())
	assert.Equal(3, emu.Cpu.Register.Get(cpu.REG_A))

	// Reset restores the unmodified program.
	assert.Equal(cpu.MakeCodeInc(cpu.REG_A), emu.Cpu.Code[3])
	emu.Reset()
	assert.Equal(cpu.MakeCodeTgl(cpu.REG_A), emu.Cpu.Code[3])
	assert.Equal(cpu.MakeCodeCpy(cpu.ConstantValue(2), cpu.REG_A), emu.Code())
}

func TestEmulatorSignal(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"cpy a b",
		"out b",
		"dec b",
		"jnz 1 -2",
	}

	emu := NewEmulator(doParse(t, cpu.OPSET_OUTPUT, program))
	emu.Overrides = []cpu.Override{{Register: cpu.REG_A, Value: 5}}
	emu.Reset()

	tape := &bytes.Buffer{}
	emu.Tape.Output = tape

	output, err := emu.Signal(3)
	assert.NoError(err)
	assert.Equal([]int{5, 4, 3, 2}, output)
	assert.Equal("5\n4\n3\n2\n", tape.String())

	state := maps.Collect(emu.State())
	assert.Equal(map[string]int{
		"a": 5, "b": 2, "c": 0, "d": 0,
		"ip":     2,
		"ticks":  11,
		"output": 4,
	}, state)
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"cpy 2 a",
		"; toggle the output",
		"tgl a",
		"inc b",
		"out a",
	}

	emu := NewEmulator(doParse(t, cpu.OPSET_OUTPUT, program))

	err := emu.Run()
	assert.ErrorIs(err, cpu.ErrToggleInvalid)

	var re *ErrRuntime
	if assert.True(errors.As(err, &re)) {
		assert.Equal(3, re.LineNo)
		assert.Equal(1, re.Ip)
	}
}

func TestEmulatorTickLimit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(doParse(t, cpu.OPSET_DEFAULT, []string{"jnz 1 0"}))
	emu.TickLimit = 50
	emu.Reset()

	err := emu.Run()
	assert.ErrorIs(err, cpu.ErrTickLimit)
	assert.Equal(50, emu.Cpu.Ticks)
}

func TestEmulatorFastPath(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"cpy 0 a",
		"cpy 3 d",
		"cpy 4 b",
		"cpy b c",
		"inc a",
		"dec c",
		"jnz c -2",
		"dec d",
		"jnz d -5",
	}

	prog := doParse(t, cpu.OPSET_DEFAULT, program)

	slow := NewEmulator(prog)
	assert.NoError(slow.Run())

	fast := NewEmulator(prog)
	fast.FastPath = &cpu.MultiplyLoop{Ip: 4}
	fast.Reset()
	assert.NoError(fast.Run())

	assert.Equal(12, fast.Cpu.Register.Get(cpu.REG_A))
	assert.Equal(slow.Cpu.Register, fast.Cpu.Register)
	assert.Less(fast.Cpu.Ticks, slow.Cpu.Ticks)
}
