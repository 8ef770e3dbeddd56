package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joshuapare/hivedigger/internal/logger"
	"github.com/joshuapare/hivedigger/pkg/types"
)

// Exit codes.
const (
	exitOK       = 0
	exitUsage    = 1 // bad arguments, unreadable file, anything else
	exitNotFound = 2
	exitCorrupt  = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case types.IsNotFound(err):
		return exitNotFound
	case types.IsCorrupt(err):
		return exitCorrupt
	default:
		return exitUsage
	}
}
