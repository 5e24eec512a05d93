/*
Package vm implements a virtual machine for the LC-3 instruction set.

The design mimics the micro-architecture described in the reference
texts: executing an instruction is broken into the same phases a real
CPU would use — fetch, decode, evaluate address, fetch operands,
execute, store result — and each opcode implements only the phases its
semantics require. This keeps the instruction decoder a single switch
that names every opcode, instead of a single big function that
special-cases each opcode's side effects inline.

# Memory

Memory is a flat array of 65,536 words. Two addresses near the top of
the space are reserved for the keyboard: reading the status register
polls the I/O adapter and, if a character is waiting, latches it into
the data register. All other addresses behave as ordinary storage.

# I/O

The machine does not open a terminal or touch os.Stdin itself. It is
handed an IOAdapter at construction and calls it from two places: the
keyboard status read in Memory, and the trap service routines in
traps.go. Tests supply a scripted adapter over an in-memory buffer;
cmd/lc3vm wires up a real terminal adapter from internal/tty.

# What's missing, deliberately

There is no privilege mode, no supervisor stack, no interrupt
controller, and RTI is not implemented — the LC-3 programs this
machine runs are expected to be unprivileged user programs that start
at 0x3000 and end with a TRAP HALT.
*/
package vm
