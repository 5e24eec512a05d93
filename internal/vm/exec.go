package vm

// exec.go implements the instruction cycle: fetch, decode, evaluate
// address, fetch operands, execute, store result.

import (
	"fmt"

	"lc3vm/internal/log"
)

// Run executes instructions until the machine halts (a clean TRAP HALT) or
// a fatal fault occurs (an illegal opcode, or an I/O error from the host
// adapter).
func (cpu *LC3) Run() error {
	cpu.log.Info("START", log.Group("STATE", cpu))

	for cpu.running {
		if err := cpu.Step(); err != nil {
			cpu.running = false
			cpu.log.Error("HALTED (fault)", "err", err, log.Group("STATE", cpu))

			return err
		}
	}

	cpu.log.Info("HALTED", log.Group("STATE", cpu))

	return nil
}

// Step runs a single instruction cycle to completion.
func (cpu *LC3) Step() error {
	if err := cpu.fetch(); err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	op, err := cpu.decode()
	if err != nil {
		return err
	}

	if a, ok := op.(addressable); ok {
		a.EvalAddress(cpu)
	}

	if f, ok := op.(fetchable); ok {
		if err := f.FetchOperands(cpu); err != nil {
			return err
		}
	}

	if err := op.Execute(cpu); err != nil {
		return err
	}

	if s, ok := op.(storable); ok {
		if err := s.StoreResult(cpu); err != nil {
			return err
		}
	}

	cpu.log.Debug("executed", "op", op.opcode(), log.Group("STATE", cpu))

	return nil
}

// fetch loads the word addressed by PC into IR and increments PC, wrapping
// modulo 2^16.
func (cpu *LC3) fetch() error {
	w, err := cpu.Mem.Read(Word(cpu.PC))
	if err != nil {
		return err
	}

	cpu.IR = Instruction(w)
	cpu.PC++

	return nil
}

// decode returns the operation encoded by IR, with its operand fields
// already extracted.
func (cpu *LC3) decode() (operation, error) {
	ir := cpu.IR

	switch ir.Opcode() {
	case BR:
		return &br{nzp: ir.NZP(), offset: ir.Offset(OFFSET9)}, nil

	case ADD:
		if ir.Imm() {
			return &add{dr: ir.DR(), sr1: ir.SR1(), imm: true, lit: ir.Literal(IMM5)}, nil
		}

		return &add{dr: ir.DR(), sr1: ir.SR1(), sr2: ir.SR2()}, nil

	case AND:
		if ir.Imm() {
			return &and{dr: ir.DR(), sr1: ir.SR1(), imm: true, lit: ir.Literal(IMM5)}, nil
		}

		return &and{dr: ir.DR(), sr1: ir.SR1(), sr2: ir.SR2()}, nil

	case NOT:
		return &not{dr: ir.DR(), sr: ir.SR1()}, nil

	case LD:
		return &ld{dr: ir.DR(), offset: ir.Offset(OFFSET9)}, nil

	case LDI:
		return &ldi{dr: ir.DR(), offset: ir.Offset(OFFSET9)}, nil

	case LDR:
		return &ldr{dr: ir.DR(), base: ir.SR1(), offset: ir.Offset(OFFSET6)}, nil

	case LEA:
		return &lea{dr: ir.DR(), offset: ir.Offset(OFFSET9)}, nil

	case ST:
		return &st{sr: ir.SR(), offset: ir.Offset(OFFSET9)}, nil

	case STI:
		return &sti{sr: ir.SR(), offset: ir.Offset(OFFSET9)}, nil

	case STR:
		return &str{sr: ir.SR(), base: ir.SR1(), offset: ir.Offset(OFFSET6)}, nil

	case JMP: // Also RET, which is JMP with SR1 == R7.
		return &jmp{base: ir.SR1()}, nil

	case JSR:
		if ir.Relative() {
			return &jsr{offset: ir.Offset(OFFSET11)}, nil
		}

		return &jsrr{base: ir.SR1()}, nil

	case TRAP:
		return &trap{vector: ir.Vector(VECTOR8)}, nil

	case RES, RTI:
		return &illegal{op: ir.Opcode()}, nil

	default:
		return &illegal{op: ir.Opcode()}, nil
	}
}
