// Command kitchen-display renders the kitchen board in a terminal against a
// running API server. The board refreshes on an interval and immediately
// after every operator action.
//
// Operator commands on stdin:
//
//	start <id>   mark an order In Progress
//	done <id>    mark an order Done
//	bump <id>    remove an order from the board
//	refresh      re-fetch now
//	quit         exit
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/elliemck/boba-pos/internal/display"
	"github.com/elliemck/boba-pos/internal/domain/kitchen"
)

func main() {
	var (
		serverURL string
		interval  time.Duration
	)

	flag.StringVar(&serverURL, "server-url", "http://localhost:3000", "API server base URL")
	flag.DurationVar(&interval, "interval", display.DefaultInterval, "board auto-refresh interval")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, serverURL, interval); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("kitchen display failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, serverURL string, interval time.Duration) error {
	lg, err := zap.NewDevelopment()
	if err != nil {
		return errors.Wrap(err, "create logger")
	}
	defer func() { _ = lg.Sync() }()

	client := display.NewHTTPClient(serverURL, nil)
	renderer := display.NewTermRenderer(os.Stdout)
	loop := display.NewLoop(client, renderer, interval, lg)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.Run(ctx)
	})
	g.Go(func() error {
		defer cancel()
		return readCommands(ctx, loop)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func readCommands(ctx context.Context, loop *display.Loop) error {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "refresh", "r":
			loop.Refresh()
		case "quit", "q":
			return nil
		case "start", "done", "bump":
			if len(fields) != 2 {
				fmt.Printf("usage: %s <order id>\n", fields[0])
				continue
			}
			id, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				fmt.Printf("bad order id %q\n", fields[1])
				continue
			}
			if err := apply(ctx, loop, fields[0], id); err != nil {
				fmt.Printf("error: %v\n", err)
			}
		default:
			fmt.Println("commands: start <id>, done <id>, bump <id>, refresh, quit")
		}
	}
	return scanner.Err()
}

func apply(ctx context.Context, loop *display.Loop, command string, id int64) error {
	switch command {
	case "start":
		return loop.Advance(ctx, id, kitchen.StatusInProgress)
	case "done":
		return loop.Advance(ctx, id, kitchen.StatusDone)
	case "bump":
		return loop.Bump(ctx, id)
	}
	return nil
}
