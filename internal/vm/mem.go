package vm

// mem.go is the machine's memory: a flat array of 65,536 words, plus the
// read side effect that makes the keyboard status/data registers look like
// ordinary memory to the executor.

import "fmt"

// AddressSpace is the number of addressable words in the machine: 2^16.
const AddressSpace = 1 << 16

// Addresses of the memory-mapped keyboard registers.
const (
	KBSRAddr Word = 0xfe00 // Keyboard status register.
	KBDRAddr Word = 0xfe02 // Keyboard data register.
)

// Bit set in KBSR when a character is buffered in KBDR.
const keyboardReady Word = 0x8000

// Memory holds the machine's entire address space. Reads of KBSRAddr poll
// the I/O adapter and latch a character into KBDRAddr as a side effect;
// every other address is a plain read or write.
type Memory struct {
	cell [AddressSpace]Word
	io   IOAdapter
}

// NewMemory creates zeroed memory backed by the given I/O adapter. A nil
// adapter is permitted for tests that never touch the keyboard registers.
func NewMemory(io IOAdapter) *Memory {
	return &Memory{io: io}
}

// Read returns the word at addr. Reading KBSRAddr first polls the keyboard
// and updates both keyboard registers.
func (m *Memory) Read(addr Word) (Word, error) {
	if addr == KBSRAddr {
		if err := m.pollKeyboard(); err != nil {
			return 0, err
		}
	}

	return m.cell[addr], nil
}

// Write unconditionally stores value at addr.
func (m *Memory) Write(addr, value Word) {
	m.cell[addr] = value
}

func (m *Memory) pollKeyboard() error {
	if m.io == nil {
		return nil
	}

	if m.io.PollKeyboard() {
		c, err := m.io.ReadChar()
		if err != nil {
			return fmt.Errorf("mem: keyboard: %w", err)
		}

		m.cell[KBDRAddr] = Word(c)
		m.cell[KBSRAddr] = keyboardReady
	} else {
		m.cell[KBSRAddr] = 0
	}

	return nil
}
