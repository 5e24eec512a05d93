package vm

// loader.go reads an object image: a big-endian origin address followed by
// a big-endian sequence of words, stored contiguously in memory starting
// at the origin.

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrNoImage indicates a truncated stream: fewer than two bytes, not
// enough for an origin address.
var ErrNoImage = errors.New("lc3: no image")

// Loader stores object code into a machine's memory.
type Loader struct {
	vm *LC3
}

// NewLoader creates a loader that stores into vm's memory.
func NewLoader(vm *LC3) *Loader {
	return &Loader{vm: vm}
}

// Load reads one object image from r and stores it into memory starting at
// the origin address encoded in the image's first word. It returns the
// origin and the count of words stored. Loading is additive: repeated
// calls with different images overwrite overlapping regions but otherwise
// coexist. Words that would fall outside the address space are silently
// dropped, per the image format's truncation rule.
func (l *Loader) Load(r io.Reader) (Word, int, error) {
	br := bufio.NewReader(r)

	var origin uint16

	if err := binary.Read(br, binary.BigEndian, &origin); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, 0, fmt.Errorf("%w: %w", ErrNoImage, err)
		}

		return 0, 0, fmt.Errorf("%w: %w", ErrLoader, err)
	}

	addr := Word(origin)
	count := 0

	for int(origin)+count < AddressSpace {
		var word uint16

		err := binary.Read(br, binary.BigEndian, &word)
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return Word(origin), count, fmt.Errorf("%w: %w", ErrLoader, err)
		}

		l.vm.Mem.Write(addr, Word(word))
		addr++
		count++
	}

	return Word(origin), count, nil
}
