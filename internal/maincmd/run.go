package maincmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/emberlang/ember/internal/config"
	"github.com/emberlang/ember/lang/compiler"
	"github.com/emberlang/ember/lang/heap"
	"github.com/emberlang/ember/lang/vm"
	"github.com/mna/mainer"
)

// compileError and runtimeErr wrap the two failure modes Run can surface,
// each carrying the sysexits.h code Main maps it to.
type compileError struct{ n int }

func (e compileError) Error() string       { return fmt.Sprintf("%d compile error(s)", e.n) }
func (e compileError) ExitCode() mainer.ExitCode { return ExitDataErr }

type runtimeErr struct{ err error }

func (e runtimeErr) Error() string       { return e.err.Error() }
func (e runtimeErr) ExitCode() mainer.ExitCode { return ExitSoftware }

type ioErr struct{ err error }

func (e ioErr) Error() string       { return e.err.Error() }
func (e ioErr) ExitCode() mainer.ExitCode { return ExitIOErr }

// Run compiles and interprets the script at args[0], or starts an
// interactive REPL if args is empty.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return runtimeErr{err}
	}
	if c.Trace {
		cfg.Trace = true
	}
	if c.DumpConfig {
		dump, err := config.DumpYAML(cfg)
		if err != nil {
			return runtimeErr{err}
		}
		fmt.Fprint(stdio.Stderr, dump)
	}

	h := heap.New()
	h.SetStressGC(cfg.StressGC)
	h.SetMinHeap(cfg.MinHeap)
	h.SetGrowthFactor(cfg.GCGrowthFactor)
	machine := vm.New(h, stdio.Stdout)
	machine.SetStderr(stdio.Stderr)
	machine.Debug = cfg.Trace

	if len(args) == 0 {
		return c.runREPL(ctx, stdio, h, machine)
	}
	return c.runFile(ctx, stdio, h, machine, args[0])
}

func (c *Cmd) runFile(_ context.Context, stdio mainer.Stdio, h *heap.Heap, machine *vm.VM, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return ioErr{err}
	}

	fn, errs := compiler.New(h).Compile(src)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(stdio.Stderr, e)
		}
		return compileError{n: len(errs)}
	}

	if _, rerr := machine.Interpret(fn); rerr != nil {
		fmt.Fprint(stdio.Stderr, rerr.Error())
		return runtimeErr{rerr}
	}
	return nil
}

// runREPL reads one line at a time from stdio.Stdin, compiling and running
// each as its own top-level script; a compile or runtime error is reported
// but never ends the session, matching a REPL's forgiving contract.
func (c *Cmd) runREPL(ctx context.Context, stdio mainer.Stdio, h *heap.Heap, machine *vm.VM) error {
	in := stdio.Stdin
	if in == nil {
		in = os.Stdin
	}
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(stdio.Stdout, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(stdio.Stdout)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if ctx.Err() != nil {
			return nil
		}

		fn, errs := compiler.New(h).Compile([]byte(line))
		if len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintln(stdio.Stderr, e)
			}
			continue
		}
		if _, rerr := machine.Interpret(fn); rerr != nil {
			fmt.Fprint(stdio.Stderr, rerr.Error())
		}
	}
}
