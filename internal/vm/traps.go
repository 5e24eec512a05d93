package vm

// traps.go implements the trap service routines as native Go rather than
// as LC-3 machine code loaded into a vector table — the spec calls these
// "in-emulator" services, and there is no supervisor address space here
// for a vector table to live in.

import (
	"errors"
	"fmt"
)

// ErrNoConsole is returned by a trap that needs to read a character when
// no I/O adapter is attached. A nil adapter still lets output-only traps
// and HALT succeed, the same way mem.go treats a nil adapter as "no key
// ready" rather than panicking.
var ErrNoConsole = errors.New("lc3: no console attached")

// Trap vectors recognized by this emulator.
const (
	TrapGETC  Word = 0x20 // Read a character, no echo.
	TrapOUT   Word = 0x21 // Write a character.
	TrapPUTS  Word = 0x22 // Write a NUL-terminated string, one char per word.
	TrapIN    Word = 0x23 // Prompt, read a character, echo it.
	TrapPUTSP Word = 0x24 // Write a NUL-terminated string, two chars per word.
	TrapHALT  Word = 0x25 // Stop the machine.
)

// dispatchTrap runs the service routine for vector, or returns
// ErrIllegalOpcode if the vector is not recognized.
func (cpu *LC3) dispatchTrap(vector Word) error {
	switch vector {
	case TrapGETC:
		return cpu.trapGETC()
	case TrapOUT:
		return cpu.trapOUT()
	case TrapPUTS:
		return cpu.trapPUTS()
	case TrapIN:
		return cpu.trapIN()
	case TrapPUTSP:
		return cpu.trapPUTSP()
	case TrapHALT:
		return cpu.trapHALT()
	default:
		return fmt.Errorf("%w: trap vector %s", ErrIllegalOpcode, vector)
	}
}

// trapGETC reads one character from the input stream into R0, without
// echoing it, and updates the condition code.
func (cpu *LC3) trapGETC() error {
	c, err := cpu.readChar("getc")
	if err != nil {
		return err
	}

	cpu.Reg[R0] = Register(c)
	cpu.updateFlags(R0)

	return nil
}

// trapOUT writes the low byte of R0 to the output stream and flushes it.
func (cpu *LC3) trapOUT() error {
	if err := cpu.writeChar("out", byte(cpu.Reg[R0])); err != nil {
		return err
	}

	return cpu.flush("out")
}

// trapPUTS writes the low byte of each word starting at mem[R0] until a
// zero word is reached, then flushes.
func (cpu *LC3) trapPUTS() error {
	addr := Word(cpu.Reg[R0])

	for {
		w, err := cpu.Mem.Read(addr)
		if err != nil {
			return fmt.Errorf("trap: puts: %w", err)
		}

		if w == 0 {
			break
		}

		if err := cpu.writeChar("puts", byte(w)); err != nil {
			return err
		}

		addr++
	}

	return cpu.flush("puts")
}

// trapIN prompts, reads and echoes a single character, stores it in R0,
// and updates the condition code.
func (cpu *LC3) trapIN() error {
	const prompt = "Enter a character: "

	for i := 0; i < len(prompt); i++ {
		if err := cpu.writeChar("in", prompt[i]); err != nil {
			return err
		}
	}

	if err := cpu.flush("in"); err != nil {
		return err
	}

	c, err := cpu.readChar("in")
	if err != nil {
		return err
	}

	if err := cpu.writeChar("in", c); err != nil {
		return err
	}

	if err := cpu.flush("in"); err != nil {
		return err
	}

	cpu.Reg[R0] = Register(c)
	cpu.updateFlags(R0)

	return nil
}

// trapPUTSP writes two characters per word, low byte first, starting at
// mem[R0] until a zero word is reached. A zero high byte terminates only
// that word's second character; the string continues until a zero word.
func (cpu *LC3) trapPUTSP() error {
	addr := Word(cpu.Reg[R0])

	for {
		w, err := cpu.Mem.Read(addr)
		if err != nil {
			return fmt.Errorf("trap: putsp: %w", err)
		}

		if w == 0 {
			break
		}

		lo := byte(w & 0x00ff)
		hi := byte(w >> 8)

		if err := cpu.writeChar("putsp", lo); err != nil {
			return err
		}

		if hi != 0 {
			if err := cpu.writeChar("putsp", hi); err != nil {
				return err
			}
		}

		addr++
	}

	return cpu.flush("putsp")
}

// trapHALT prints a halt message, flushes it, and stops the run loop.
func (cpu *LC3) trapHALT() error {
	const msg = "HALT\n"

	for i := 0; i < len(msg); i++ {
		if err := cpu.writeChar("halt", msg[i]); err != nil {
			return err
		}
	}

	if err := cpu.flush("halt"); err != nil {
		return err
	}

	cpu.running = false

	return nil
}

// writeChar writes b to the console, if one is attached. With no adapter
// attached there is nowhere for output to go, so it is dropped rather than
// treated as a fault: a program that only ever writes must still be able
// to run and halt.
func (cpu *LC3) writeChar(who string, b byte) error {
	if cpu.io == nil {
		return nil
	}

	if err := cpu.io.WriteChar(b); err != nil {
		return fmt.Errorf("trap: %s: %w", who, err)
	}

	return nil
}

// readChar reads a byte from the console. Unlike writeChar, a missing
// adapter is a fault here: the trap was asked for input that can never
// arrive.
func (cpu *LC3) readChar(who string) (byte, error) {
	if cpu.io == nil {
		return 0, fmt.Errorf("trap: %s: %w", who, ErrNoConsole)
	}

	c, err := cpu.io.ReadChar()
	if err != nil {
		return 0, fmt.Errorf("trap: %s: %w", who, err)
	}

	return c, nil
}

func (cpu *LC3) flush(who string) error {
	if cpu.io == nil {
		return nil
	}

	if err := cpu.io.Flush(); err != nil {
		return fmt.Errorf("trap: %s: flush: %w", who, err)
	}

	return nil
}
