package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/dshills/manage/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Main(ctx, cli.Options{Args: os.Args[1:]})
	stop()
	os.Exit(code)
}
