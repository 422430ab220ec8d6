// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

// FastPath replaces a known instruction sequence with its direct result.
//
// Apply is called before each fetch. If it recognizes the program and state
// at the current instruction pointer, it updates the registers and returns
// the instruction pointer to resume at. Otherwise it returns ok == false and
// the instruction executes normally.
type FastPath interface {
	Apply(cpu *Cpu) (next_ip int, ok bool)
}

// MULTIPLY_LOOP_IP is the address of the multiply loop in the tgl puzzle program.
const MULTIPLY_LOOP_IP = 5

// MultiplyLoop accelerates the nested increment loop
//
//	Ip-1: cpy W Y
//	Ip+0: inc X
//	Ip+1: dec Y
//	Ip+2: jnz Y -2
//	Ip+3: dec Z
//	Ip+4: jnz Z -5
//
// which computes X += W * Z. On entry at Ip, Y has just been loaded from W,
// so the remaining work is X += Y + W * (Z - 1), leaving Y = 0. Execution
// resumes at the final 'dec Z' with Z = 1, so the closing jnz falls through.
type MultiplyLoop struct {
	Ip int // Address of the 'inc X'.
}

var _ FastPath = (*MultiplyLoop)(nil)

// match returns the registers of the loop, if the program at Ip has the loop shape.
func (ml *MultiplyLoop) match(code []Code) (w Value, x, y, z Register, ok bool) {
	ip := ml.Ip
	if ip < 1 || ip+4 >= len(code) {
		return
	}

	isJump := func(code Code, reg Register, offset int) bool {
		r, ok := code.A.Register()
		if !ok || r != reg || code.Op != OP_JNZ || code.Invalid {
			return false
		}
		n, ok := code.B.Constant()
		return ok && n == offset
	}

	cpy, inc, decY, decZ := code[ip-1], code[ip], code[ip+1], code[ip+3]
	if cpy.Op != OP_CPY || inc.Op != OP_INC || decY.Op != OP_DEC || decZ.Op != OP_DEC {
		return
	}

	w = cpy.A
	x, _ = inc.A.Register()
	y, _ = decY.A.Register()
	z, _ = decZ.A.Register()

	if dst, _ := cpy.B.Register(); dst != y {
		return
	}
	if !isJump(code[ip+2], y, -2) || !isJump(code[ip+4], z, -5) {
		return
	}
	if x == y || x == z || y == z {
		return
	}
	if wr, isReg := w.Register(); isReg && (wr == x || wr == y || wr == z) {
		return
	}

	ok = true
	return
}

// Apply implements FastPath.
func (ml *MultiplyLoop) Apply(cpu *Cpu) (next_ip int, ok bool) {
	if cpu.Ip != ml.Ip {
		return
	}

	w, x, y, z, ok := ml.match(cpu.Code)
	if !ok {
		return
	}

	regs := &cpu.Register
	// Only loops that terminate are replaced.
	if regs.Get(y) < 1 || regs.Get(z) < 1 || (regs.Get(z) > 1 && w.Resolve(regs) < 1) {
		ok = false
		return
	}

	regs.Set(x, regs.Get(x)+regs.Get(y)+w.Resolve(regs)*(regs.Get(z)-1))
	regs.Set(y, 0)
	regs.Set(z, 1)

	next_ip = ml.Ip + 3
	return
}
