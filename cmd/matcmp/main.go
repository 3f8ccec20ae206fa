// SPDX-License-Identifier: MIT

// Command matcmp runs the cross-library matrix comparison suite outside of
// go test, lists the registered backends and manages the failure corpus.
//
//	matcmp run --ops inverse --dims 4 --iterations 4096
//	matcmp replay --op inverse --dim 4 --seed 1234567
//	matcmp failures --limit 10
//	matcmp libs
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}
