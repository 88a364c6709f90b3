// Package signal provides signal handling for graceful shutdown of the
// qgisprobe CLI.
//
// The SetupSignalHandler function registers handlers for SIGINT and SIGTERM.
// The first signal cancels the provided context so a running probe can stop
// between subprocess invocations; a second signal aborts the process
// immediately, in case a child qgis_process refuses to die.
package signal

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tileforge/qgisprobe/internal/exitcode"
)

// exit is swapped out by tests; exercising the second-signal path must not
// kill the test binary.
var exit = os.Exit

// SetupSignalHandler registers SIGINT and SIGTERM handlers.
// When a signal is received, it calls the onInterrupt callback (if non-nil),
// then cancels the context. A second signal exits immediately with the
// Interrupted code.
//
// This function starts a goroutine that listens for signals. The goroutine
// unregisters itself when the context is canceled without a signal.
//
// Parameters:
//   - ctx: The context to monitor for cancellation
//   - cancel: The cancel function to call when a signal is received
//   - onInterrupt: Optional callback to execute before canceling context
//
// Example usage:
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	signal.SetupSignalHandler(ctx, cancel, func() {
//	    fmt.Println("Received interrupt signal, shutting down...")
//	})
func SetupSignalHandler(ctx context.Context, cancel context.CancelFunc, onInterrupt func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			if onInterrupt != nil {
				onInterrupt()
			}
			cancel()
			// Second signal: the graceful path is not fast enough
			// for the operator, abort now.
			<-sigCh
			exit(exitcode.Interrupted)
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
}
