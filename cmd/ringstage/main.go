// File: cmd/ringstage/main.go
// Author: momentics <momentics@gmail.com>
//
// ringstage copies stdin to stdout through a fixed-capacity staging ring.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go func() {
		// restore default handling so a second signal kills a blocked stdin read
		<-ctx.Done()
		cancel()
	}()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
