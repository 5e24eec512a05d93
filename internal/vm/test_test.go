package vm

import (
	"testing"

	"lc3vm/internal/log"
)

// NewTestHarness creates a harness that logs through t.Log and builds
// machines wired to a scripted I/O adapter instead of a real terminal.
func NewTestHarness(t *testing.T) *testHarness {
	t.Parallel()

	th := &testHarness{T: t}
	th.log = log.NewFormattedLogger(th)

	return th
}

type testHarness struct {
	*testing.T
	log *log.Logger
}

// Make creates a machine with a fresh scripted keyboard/display, logging
// through the harness.
func (t *testHarness) Make() (*LC3, *script) {
	return t.MakeWithInput()
}

// MakeWithInput is Make, but the scripted keyboard starts with in queued up
// for the machine to read via GETC/IN.
func (t *testHarness) MakeWithInput(in ...byte) (*LC3, *script) {
	s := newScript(in...)
	cpu := New(s, WithLogger(t.log))

	return cpu, s
}

func (t *testHarness) Write(b []byte) (int, error) {
	if n := len(b); n > 0 && b[n-1] == '\n' {
		t.Log(string(b[:n-1]))
	} else {
		t.Log(string(b))
	}

	return len(b), nil
}

// script is a scripted IOAdapter: input bytes are queued up front, and
// output bytes are recorded for inspection. Used so VM tests never touch
// a real terminal.
type script struct {
	in  []byte
	out []byte
}

func newScript(in ...byte) *script {
	return &script{in: in}
}

func (s *script) PollKeyboard() bool {
	return len(s.in) > 0
}

func (s *script) ReadChar() (byte, error) {
	if len(s.in) == 0 {
		return 0, errScriptEmpty
	}

	b := s.in[0]
	s.in = s.in[1:]

	return b, nil
}

func (s *script) WriteChar(b byte) error {
	s.out = append(s.out, b)
	return nil
}

func (s *script) Flush() error { return nil }

var errScriptEmpty = errScript("script: out of scripted input")

type errScript string

func (e errScript) Error() string { return string(e) }
