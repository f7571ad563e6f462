// Command biplan runs a byte-coded BIPLAN program against a simulated
// board. Grounded on the teacher's own main.go (flag parsing, building
// Options, running to completion, reporting through the error callback with
// a non-zero exit) plus phroun-pawscript's cmd/paw/main.go for the raw-mode
// terminal wiring a blocking-feeling INPUT()/serial console needs.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/gioscarab/biplan"
	"github.com/gioscarab/biplan/internal/bytecode"
	"github.com/gioscarab/biplan/internal/logio"
	"github.com/gioscarab/biplan/internal/panicerr"
	"github.com/gioscarab/biplan/internal/simhost"
)

func main() {
	var programPath string
	var timeout time.Duration
	var trace bool
	var raw bool
	flag.StringVar(&programPath, "program", "", "path to an assembled BIPLAN bytecode file")
	flag.DurationVar(&timeout, "timeout", 0, "stop the run after this long")
	flag.BoolVar(&trace, "trace", false, "enable trace logging of statement dispatch")
	flag.BoolVar(&raw, "raw", false, "put stdin in raw mode and feed it to input()/serial_rx()")
	flag.Parse()

	var log logio.Logger
	log.SetOutput(os.Stderr)
	if trace {
		defer log.Close()
	}

	if programPath == "" {
		log.Errorf("missing -program")
		os.Exit(log.ExitCode())
	}

	buf, err := os.ReadFile(programPath)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(log.ExitCode())
	}

	ctx := context.Background()
	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	board := simhost.NewBoard(os.Stdout)

	restore, err := wireStdin(raw, board)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(log.ExitCode())
	}
	defer restore()

	var opts []biplan.Option
	if trace {
		opts = append(opts, biplan.WithLogf(log.Leveledf("TRACE")))
	}
	ip := biplan.New(opts...)

	var lastErr error
	onError := func(pos biplan.Addr, kind biplan.ErrorKind) {
		lastErr = fmt.Errorf("biplan: %s at %d", kind, pos)
	}
	ip.Initialize(bytecode.NewStream(buf), board, onError)

	runErr := panicerr.Recover("biplan", func() error {
		for !ip.Finished() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err := ip.RunProtected(); err != nil {
				return err
			}
		}
		return lastErr
	})

	restore()
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %+v\n", runErr)
		os.Exit(1)
	}
}

// wireStdin optionally puts the terminal in raw mode and starts a goroutine
// feeding every byte read from stdin into the board's input and serial
// queues, since Host.Input/Host.SerialRead are polled rather than blocking
// (spec's primitives must stay fast and non-reentrant). It returns a
// restore func safe to call more than once.
func wireStdin(raw bool, board *simhost.Board) (restore func(), err error) {
	if !raw {
		return func() {}, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return func() {}, nil
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	restored := false
	restore = func() {
		if !restored {
			restored = true
			term.Restore(fd, oldState)
		}
	}
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if n > 0 {
				board.FeedInput(buf[:n])
				board.FeedSerial(buf[:n])
			}
			if err != nil {
				return
			}
		}
	}()
	return restore, nil
}
