package vm

import (
	"errors"
	"testing"
)

func TestInstructions(tt *testing.T) {
	tt.Parallel()

	tt.Run("BR taken", func(tt *testing.T) {
		t := NewTestHarness(tt)
		cpu, _ := t.Make()

		cpu.Mem.Write(Word(cpu.PC), 0b0000_010_000000111) // BRz #7
		cpu.Cond = ConditionZero

		if err := cpu.Step(); err != nil {
			t.Fatal(err)
		}

		if cpu.PC != 0x3001+0x0007 {
			t.Errorf("PC want: %s, got: %s", ProgramCounter(0x3001+0x0007), cpu.PC)
		}
	})

	tt.Run("BR not taken", func(tt *testing.T) {
		t := NewTestHarness(tt)
		cpu, _ := t.Make()

		cpu.Mem.Write(Word(cpu.PC), 0b0000_010_000000111) // BRz #7
		cpu.Cond = ConditionNegative

		if err := cpu.Step(); err != nil {
			t.Fatal(err)
		}

		if cpu.PC != 0x3001 {
			t.Errorf("PC want: %s, got: %s", ProgramCounter(0x3001), cpu.PC)
		}
	})

	tt.Run("NOT", func(tt *testing.T) {
		t := NewTestHarness(tt)
		cpu, _ := t.Make()

		cpu.Reg[R0] = 0b0101_1010_1111_0000
		cpu.Mem.Write(Word(cpu.PC), 0b1001_000_000_111111) // NOT R0, R0

		if err := cpu.Step(); err != nil {
			t.Fatal(err)
		}

		if cpu.Reg[R0] != 0b1010_0101_0000_1111 {
			t.Errorf("R0 want: %016b, got: %016b", 0b1010_0101_0000_1111, cpu.Reg[R0])
		}

		if cpu.Cond != ConditionNegative {
			t.Errorf("COND want: %s, got: %s", ConditionNegative, cpu.Cond)
		}
	})

	tt.Run("JSRR/RET", func(tt *testing.T) {
		t := NewTestHarness(tt)
		cpu, _ := t.Make()

		cpu.PC = 0x0400
		cpu.Mem.Write(Word(cpu.PC), 0b0100_0_00_100_000000) // JSRR R4
		cpu.Reg[R4] = 0x0300

		if err := cpu.Step(); err != nil {
			t.Fatal(err)
		}

		if cpu.PC != 0x0300 {
			t.Errorf("PC want: %s, got: %s", ProgramCounter(0x0300), cpu.PC)
		}

		if cpu.Reg[RET] != 0x0401 {
			t.Errorf("R7 want: %s, got: %s", Register(0x0401), cpu.Reg[RET])
		}
	})
}

func TestS1_ADDImm(tt *testing.T) {
	t := NewTestHarness(tt)
	cpu, _ := t.Make()

	cpu.Mem.Write(0x3000, 0x1025) // ADD R0, R0, #5

	if err := cpu.Step(); err != nil {
		t.Fatal(err)
	}

	if cpu.Reg[R0] != 5 {
		t.Errorf("R0 want: 5, got: %s", cpu.Reg[R0])
	}

	if cpu.Cond != ConditionPositive {
		t.Errorf("COND want: P, got: %s", cpu.Cond)
	}

	if cpu.PC != 0x3001 {
		t.Errorf("PC want: 0x3001, got: %s", cpu.PC)
	}
}

func TestS2_ADDNegativeImm(tt *testing.T) {
	t := NewTestHarness(tt)
	cpu, _ := t.Make()

	cpu.Mem.Write(0x3000, 0x103f) // ADD R0, R0, #-1

	if err := cpu.Step(); err != nil {
		t.Fatal(err)
	}

	if cpu.Reg[R0] != 0xffff {
		t.Errorf("R0 want: 0xffff, got: %s", cpu.Reg[R0])
	}

	if cpu.Cond != ConditionNegative {
		t.Errorf("COND want: N, got: %s", cpu.Cond)
	}
}

func TestS3_LEAFlags(tt *testing.T) {
	t := NewTestHarness(tt)
	cpu, _ := t.Make()

	cpu.Mem.Write(0x3000, 0xe002) // LEA R0, #2

	if err := cpu.Step(); err != nil {
		t.Fatal(err)
	}

	if cpu.Reg[R0] != 0x3003 {
		t.Errorf("R0 want: 0x3003, got: %s", cpu.Reg[R0])
	}

	if cpu.Cond != ConditionPositive {
		t.Errorf("COND want: P, got: %s", cpu.Cond)
	}
}

func TestS4_ANDADDToHalt(tt *testing.T) {
	t := NewTestHarness(tt)
	cpu, s := t.Make()

	cpu.Mem.Write(0x3000, 0x5020) // AND R0, R0, #0
	cpu.Mem.Write(0x3001, 0x1021) // ADD R0, R0, #1
	cpu.Mem.Write(0x3002, 0xf025) // TRAP HALT

	if err := cpu.Run(); err != nil {
		t.Fatal(err)
	}

	if cpu.Reg[R0] != 1 {
		t.Errorf("R0 want: 1, got: %s", cpu.Reg[R0])
	}

	if cpu.Cond != ConditionPositive {
		t.Errorf("COND want: P, got: %s", cpu.Cond)
	}

	if got := string(s.out); got != "HALT\n" {
		t.Errorf("output want: %q, got: %q", "HALT\n", got)
	}

	if cpu.Running() {
		t.Error("machine should have halted")
	}
}

func TestS5_PUTS(tt *testing.T) {
	t := NewTestHarness(tt)
	cpu, s := t.Make()

	cpu.Mem.Write(0x3000, 0xe003) // LEA R0, #3
	cpu.Mem.Write(0x3001, 0xf022) // TRAP PUTS
	cpu.Mem.Write(0x3002, 0xf025) // TRAP HALT
	cpu.Mem.Write(0x3003, 0x0000) // padding
	cpu.Mem.Write(0x3004, 0x0048) // 'H'
	cpu.Mem.Write(0x3005, 0x0069) // 'i'
	cpu.Mem.Write(0x3006, 0x0000)

	if err := cpu.Run(); err != nil {
		t.Fatal(err)
	}

	if got := string(s.out); got != "HiHALT\n" {
		t.Errorf("output want: %q, got: %q", "HiHALT\n", got)
	}
}

func TestS6_JSRRet(tt *testing.T) {
	t := NewTestHarness(tt)
	cpu, _ := t.Make()

	cpu.Mem.Write(0x3000, 0x4802) // JSR +2 (target: PC+1+2 = 0x3003)
	cpu.Mem.Write(0x3001, 0xf025) // TRAP HALT
	cpu.Mem.Write(0x3002, 0x0000) // padding
	cpu.Mem.Write(0x3003, 0x1021) // ADD R0, R0, #1
	cpu.Mem.Write(0x3004, 0xc1c0) // JMP R7

	if err := cpu.Run(); err != nil {
		t.Fatal(err)
	}

	if cpu.Reg[R0] != 1 {
		t.Errorf("R0 want: 1, got: %s", cpu.Reg[R0])
	}
}

func TestIllegalOpcode(tt *testing.T) {
	t := NewTestHarness(tt)
	cpu, _ := t.Make()

	cpu.Mem.Write(0x3000, 0xd000) // RES

	err := cpu.Step()
	if !errors.Is(err, ErrIllegalOpcode) {
		t.Errorf("want: ErrIllegalOpcode, got: %v", err)
	}
}

func TestUnknownTrapVector(tt *testing.T) {
	t := NewTestHarness(tt)
	cpu, _ := t.Make()

	cpu.Mem.Write(0x3000, 0xf0ff) // TRAP 0xff

	err := cpu.Step()
	if !errors.Is(err, ErrIllegalOpcode) {
		t.Errorf("want: ErrIllegalOpcode, got: %v", err)
	}
}
