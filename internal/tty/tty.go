// Package tty adapts a Unix terminal to the machine's keyboard/display
// I/O contract.
package tty

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ErrNoTTY is returned if standard input is not a terminal. Asynchronous,
// non-canonical I/O is not supported in that case.
var ErrNoTTY = errors.New("console: not a TTY")

// Console is a serial console built on Unix terminal I/O: it puts the
// terminal into raw, no-echo mode at construction and adapts blocking and
// non-blocking reads to the machine's I/O adapter contract.
type Console struct {
	in    *os.File
	out   *bufio.Writer
	fd    int
	state *term.State

	pending byte
	hasByte bool
}

// NewConsole puts sin into raw mode and returns a Console that reads from
// sin and buffers writes to sout. If sin is not a terminal, ErrNoTTY is
// returned and the terminal is left untouched. Callers must call Restore
// on every exit path to return the terminal to its original state.
func NewConsole(sin, sout *os.File) (*Console, error) {
	fd := int(sin.Fd())

	if !term.IsTerminal(fd) {
		return nil, ErrNoTTY
	}

	saved, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoTTY, err)
	}

	c := &Console{
		fd:    fd,
		in:    sin,
		out:   bufio.NewWriter(sout),
		state: saved,
	}

	if err := c.setTerminalParams(1, 0); err != nil {
		_ = term.Restore(fd, saved)
		return nil, err
	}

	return c, nil
}

// Restore returns the terminal to the state it was in before NewConsole.
func (c *Console) Restore() error {
	if err := term.Restore(c.fd, c.state); err != nil {
		return fmt.Errorf("console: restore: %w", err)
	}

	return nil
}

func (c *Console) setTerminalParams(vmin, vtime byte) error {
	termIO, err := unix.IoctlGetTermios(c.fd, getTermiosIoctl)
	if err != nil {
		return fmt.Errorf("console: termios: %w", err)
	}

	termIO.Cc[unix.VMIN] = vmin
	termIO.Cc[unix.VTIME] = vtime

	if err := unix.IoctlSetTermios(c.fd, setTermiosIoctl, termIO); err != nil {
		return fmt.Errorf("console: termios: %w", err)
	}

	return nil
}

// PollKeyboard reports whether a byte is available on standard input
// without blocking. A byte read during polling is buffered and returned
// by the next ReadChar.
func (c *Console) PollKeyboard() bool {
	if c.hasByte {
		return true
	}

	_ = syscall.SetNonblock(c.fd, true)

	var buf [1]byte

	n, err := c.in.Read(buf[:])
	if n == 1 && err == nil {
		c.pending = buf[0]
		c.hasByte = true
	}

	return c.hasByte
}

// ReadChar returns the next byte from standard input, blocking if
// necessary.
func (c *Console) ReadChar() (byte, error) {
	if c.hasByte {
		c.hasByte = false
		return c.pending, nil
	}

	_ = syscall.SetNonblock(c.fd, false)
	defer func() { _ = syscall.SetNonblock(c.fd, true) }()

	var buf [1]byte

	if _, err := c.in.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("console: read: %w", err)
	}

	return buf[0], nil
}

// WriteChar buffers b for output. Call Flush to force it out.
func (c *Console) WriteChar(b byte) error {
	if err := c.out.WriteByte(b); err != nil {
		return fmt.Errorf("console: write: %w", err)
	}

	return nil
}

// Flush forces buffered output to the terminal.
func (c *Console) Flush() error {
	if err := c.out.Flush(); err != nil {
		return fmt.Errorf("console: flush: %w", err)
	}

	return nil
}

// StreamAdapter is an IOAdapter over a plain file, used in place of Console
// when standard input is not a terminal: piped input, a CI runner, a
// container with no pty. It does no terminal mode switching, so there is no
// echo suppression and no raw mode, but GETC/OUT/PUTS/IN/PUTSP/HALT all
// still have somewhere to read from and write to instead of a nil adapter.
type StreamAdapter struct {
	in  *os.File
	out *bufio.Writer
	fd  int

	pending byte
	hasByte bool
}

// NewStreamAdapter wraps sin and sout without touching terminal state.
func NewStreamAdapter(sin, sout *os.File) *StreamAdapter {
	return &StreamAdapter{
		in:  sin,
		out: bufio.NewWriter(sout),
		fd:  int(sin.Fd()),
	}
}

// PollKeyboard reports whether a byte is available on sin without
// blocking, same contract as Console.PollKeyboard.
func (s *StreamAdapter) PollKeyboard() bool {
	if s.hasByte {
		return true
	}

	_ = syscall.SetNonblock(s.fd, true)

	var buf [1]byte

	n, err := s.in.Read(buf[:])
	if n == 1 && err == nil {
		s.pending = buf[0]
		s.hasByte = true
	}

	return s.hasByte
}

// ReadChar returns the next byte from sin, blocking if necessary.
func (s *StreamAdapter) ReadChar() (byte, error) {
	if s.hasByte {
		s.hasByte = false
		return s.pending, nil
	}

	_ = syscall.SetNonblock(s.fd, false)
	defer func() { _ = syscall.SetNonblock(s.fd, true) }()

	var buf [1]byte

	if _, err := s.in.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("stream: read: %w", err)
	}

	return buf[0], nil
}

// WriteChar buffers b for output. Call Flush to force it out.
func (s *StreamAdapter) WriteChar(b byte) error {
	if err := s.out.WriteByte(b); err != nil {
		return fmt.Errorf("stream: write: %w", err)
	}

	return nil
}

// Flush forces buffered output to sout.
func (s *StreamAdapter) Flush() error {
	if err := s.out.Flush(); err != nil {
		return fmt.Errorf("stream: flush: %w", err)
	}

	return nil
}
