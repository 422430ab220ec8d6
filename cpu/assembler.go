// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"io"
	"log"
	"slices"
	"strings"
)

// Assembler is a single pass assembler for assembunny.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcodes OpSet    // Enabled opcodes. Zero is OPSET_DEFAULT.
	Opcode  []Opcode // List of generated opcodes.
}

// ParseLines parses a slice of source lines into a Program.
func (asm *Assembler) ParseLines(lines []string) (prog *Program, err error) {
	return asm.Parse(strings.NewReader(strings.Join(lines, "\n")))
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Opcode = asm.Opcode[:0]

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("asm: %v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		err = asm.parseWords(strings.Fields(line), lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// getRegister parses the single register operand of inc, dec and tgl.
func (asm *Assembler) getRegister(words []string) (reg Register, err error) {
	if len(words) < 1 {
		err = ErrOpcodeValueMissing
		return
	}
	if len(words) > 1 {
		err = ErrOpcodeExtraArgs
		return
	}

	return ParseRegister(words[0])
}

// getValues parses exactly count value operands.
func (asm *Assembler) getValues(count int, words []string) (values []Value, err error) {
	if len(words) < count {
		err = ErrOpcodeValueMissing
		return
	}
	if len(words) > count {
		err = ErrOpcodeExtraArgs
		return
	}

	values = make([]Value, count)
	for n, word := range words {
		values[n], err = ParseValue(word)
		if err != nil {
			return
		}
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	op, ok := opMap[words[0]]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	if !asm.Opcodes.Has(op) {
		err = ErrOpcodeDisabled
		return
	}

	var code Code
	args := words[1:]

	switch op {
	case OP_CPY:
		var values []Value
		values, err = asm.getValues(2, args)
		if err != nil {
			return
		}
		if !values[1].IsRegister() {
			err = ErrRegisterInvalid
			return
		}
		code = Code{Op: OP_CPY, A: values[0], B: values[1]}
	case OP_INC, OP_DEC, OP_TGL:
		var reg Register
		reg, err = asm.getRegister(args)
		if err != nil {
			return
		}
		code = Code{Op: op, A: RegisterValue(reg)}
	case OP_JNZ:
		var values []Value
		values, err = asm.getValues(2, args)
		if err != nil {
			return
		}
		code = MakeCodeJnz(values[0], values[1])
	case OP_OUT:
		var values []Value
		values, err = asm.getValues(1, args)
		if err != nil {
			return
		}
		code = MakeCodeOut(values[0])
	}

	asm.Opcode = append(asm.Opcode, Opcode{LineNo: lineno, Words: words, Code: code})

	return
}
