// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Command aigo optimizes and checks and-inverter graphs.
//
// Run aigo help for the list of commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-air/aigo/internal/shell"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s := shell.New(os.Stdout, os.Stderr)
	if err := s.RootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "aigo: %s\n", err)
		cancel()
		os.Exit(1)
	}
}
