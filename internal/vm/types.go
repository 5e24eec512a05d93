package vm

// types.go holds the register file and condition-code registers.

import (
	"fmt"
	"strings"
)

// GPR is the ID of a general-purpose register.
type GPR uint8

const (
	R0 GPR = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7

	NumGPR // Count of general purpose registers.

	// RET is the register holding the subroutine return address by
	// convention: JSR/JSRR save PC here, and JMP R7 (RET) restores it.
	RET = R7
)

func (r GPR) String() string {
	return fmt.Sprintf("R%d", uint8(r))
}

// RegisterFile is the set of general-purpose registers.
type RegisterFile [NumGPR]Register

func (rf RegisterFile) String() string {
	var b strings.Builder

	for i := 0; i < len(rf)/2; i++ {
		fmt.Fprintf(&b, "R%d: %s\tR%d: %s\n", i, rf[i], i+len(rf)/2, rf[i+len(rf)/2])
	}

	return b.String()
}

// Condition is the NZP condition-code register. Exactly one bit is set at
// any time: the sign of the most recently computed result.
type Condition uint8

const (
	ConditionPositive Condition = 1 << iota // P
	ConditionZero                           // Z
	ConditionNegative                       // N
)

func (c Condition) String() string {
	return fmt.Sprintf("%01x (N:%t Z:%t P:%t)", uint8(c), c.Negative(), c.Zero(), c.Positive())
}

// Positive returns true if the P flag is set.
func (c Condition) Positive() bool { return c&ConditionPositive != 0 }

// Negative returns true if the N flag is set.
func (c Condition) Negative() bool { return c&ConditionNegative != 0 }

// Zero returns true if the Z flag is set.
func (c Condition) Zero() bool { return c&ConditionZero != 0 }

// updateFlags sets Cond from the sign of the value just written to reg.
func (cpu *LC3) updateFlags(reg GPR) {
	v := cpu.Reg[reg]

	switch {
	case v == 0:
		cpu.Cond = ConditionZero
	case v&0x8000 != 0:
		cpu.Cond = ConditionNegative
	default:
		cpu.Cond = ConditionPositive
	}
}
