// Command lc3vm loads one or more LC-3 object images and runs them to
// completion on a simulated LC-3 computer, using the controlling
// terminal as the machine's console.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lc3vm/internal/encoding"
	"lc3vm/internal/log"
	"lc3vm/internal/tty"
	"lc3vm/internal/vm"
)

const usage = `usage: lc3vm [-loglevel level] [-dump-hex] <image-file> [<image-file>...]

  -loglevel debug|info|warn|error   set the log level (default info)
  -dump-hex                         write a hex dump of final memory to stderr after HALT
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := flag.NewFlagSet("lc3vm", flag.ContinueOnError)
	flags.Usage = func() { fmt.Fprint(os.Stdout, usage) }

	loglevel := flags.String("loglevel", "info", "log level: debug, info, warn, error")
	dumpHex := flags.Bool("dump-hex", false, "write a hex dump of memory to stderr after HALT")

	if err := flags.Parse(args); err != nil {
		return 2
	}

	images := flags.Args()
	if len(images) == 0 {
		flags.Usage()
		return 2
	}

	level, err := log.ParseLevel(*loglevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lc3vm: %s\n", err)
		return 2
	}

	log.LogLevel.Set(level)
	logger := log.DefaultLogger()

	var io vm.IOAdapter

	console, err := tty.NewConsole(os.Stdin, os.Stdout)
	switch {
	case errors.Is(err, tty.ErrNoTTY):
		logger.Warn("no controlling terminal; running without raw console I/O")
		io = tty.NewStreamAdapter(os.Stdin, os.Stdout)
	case err != nil:
		fmt.Fprintf(os.Stderr, "lc3vm: %s\n", err)
		return 1
	default:
		io = console
		defer func() { _ = console.Restore() }()
	}

	cpu := vm.New(io, vm.WithLogger(logger))
	loader := vm.NewLoader(cpu)

	for _, path := range images {
		if err := loadImage(loader, path); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load image: %s\n", path)
			return 1
		}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	code, runErr := runMachine(cpu, sig)
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "lc3vm: %s\n", runErr)
	}

	if *dumpHex && code == 0 {
		if err := encoding.DumpMemory(os.Stderr, cpu.Mem, vm.UserSpaceAddr, vm.UserSpaceAddr+0x200); err != nil {
			fmt.Fprintf(os.Stderr, "lc3vm: dump-hex: %s\n", err)
		}
	}

	return code
}

func loadImage(loader *vm.Loader, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, _, err = loader.Load(f)

	return err
}

// runMachine steps the machine to completion, checking once per
// instruction boundary for a pending interrupt signal.
func runMachine(cpu *vm.LC3, sig <-chan os.Signal) (int, error) {
	for cpu.Running() {
		select {
		case <-sig:
			return 130, nil
		default:
		}

		if err := cpu.Step(); err != nil {
			return 1, err
		}
	}

	return 0, nil
}
