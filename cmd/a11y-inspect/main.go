package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/odvcencio/furry-a11y/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "a11y-inspect: %v\n", err)
		stop()
		os.Exit(1)
	}
}
