// Command sheetctl inspects the workbooks behind the web app: it checks their
// columns, prints the entry of a given day and hashes passwords for seeding the
// Users sheet by hand.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	return newRootCmd().ExecuteContext(ctx)
}
