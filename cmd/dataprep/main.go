// dataprep runs data preparations over JSON envelopes and CSV files.
//
// Usage:
//
//	dataprep transform input.csv --preparation clean.yaml -o out.json
//	dataprep transform a.csv b.csv --preparation clean --output-dir out/
//	dataprep actions [--json]
//	dataprep serve
//	dataprep version
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
