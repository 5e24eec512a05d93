package vm

// vm.go assembles the machine from its smaller parts.

import (
	"fmt"

	"lc3vm/internal/log"
)

// UserSpaceAddr is where the loader and the architecture convention expect
// the first instruction of a user program to live.
const UserSpaceAddr Word = 0x3000

// LC3 is an LC-3 computer simulated in software.
type LC3 struct {
	PC   ProgramCounter // Points at the next instruction to fetch.
	IR   Instruction    // The instruction currently executing.
	Cond Condition      // NZP condition code.
	Reg  RegisterFile   // General-purpose registers R0-R7.
	Mem  *Memory        // The entire address space.

	io      IOAdapter
	running bool
	log     *log.Logger
}

// Option configures an LC3 at construction time.
type Option func(*LC3)

// WithLogger attaches a logger the machine uses for diagnostic output. If
// omitted, a default logger writing to os.Stderr is used.
func WithLogger(logger *log.Logger) Option {
	return func(cpu *LC3) {
		cpu.log = logger
	}
}

// New creates a machine wired to the given I/O adapter and sets it to its
// initial running state: PC = 0x3000, COND = Z.
func New(io IOAdapter, opts ...Option) *LC3 {
	cpu := &LC3{
		PC:      ProgramCounter(UserSpaceAddr),
		Cond:    ConditionZero,
		Mem:     NewMemory(io),
		io:      io,
		running: true,
		log:     log.DefaultLogger(),
	}

	for _, opt := range opts {
		opt(cpu)
	}

	return cpu
}

func (cpu *LC3) String() string {
	return fmt.Sprintf("PC: %s IR: %s COND: %s", cpu.PC, cpu.IR, cpu.Cond)
}

// Running reports whether the machine has not yet halted.
func (cpu *LC3) Running() bool {
	return cpu.running
}

func (cpu *LC3) LogValue() log.Value {
	return log.GroupValue(
		log.String("PC", cpu.PC.String()),
		log.String("IR", cpu.IR.String()),
		log.String("COND", cpu.Cond.String()),
	)
}
