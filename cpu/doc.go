// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package cpu implements the register machine and assembler for assembunny.
//
// The machine has an instruction pointer (IP), four signed general-purpose
// registers (a-d), an append-only output sink, and a mutable program store.
// The tgl instruction rewrites other instructions of the running program in
// place, so every run operates on its own copy of the program.
//
// The assembler parses one instruction per line. The set of accepted opcodes
// is selected per Assembler, so programs for machines without the out
// instruction reject it at parse time.
package cpu
