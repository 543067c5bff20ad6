// cmd/modeldocs/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/law-makers/modeldocs/internal/cli"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ctx, stop := cancelOnSignal(context.Background(), sigCh, func(os.Signal) {
		log.Warn().Msg("Interrupt received, shutting down gracefully...")
	})

	err := cli.Execute(ctx, os.Args[1:])
	stop()
	signal.Stop(sigCh)
	if err != nil {
		os.Exit(1)
	}
}

// cancelOnSignal returns a context cancelled when a signal arrives on sigCh.
// onSignal runs only for a received signal, never when stop is called.
func cancelOnSignal(parent context.Context, sigCh <-chan os.Signal, onSignal func(os.Signal)) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			select {
			case <-done:
				return
			default:
			}
			onSignal(sig)
			cancel()
		case <-done:
		}
	}()

	stop := func() {
		select {
		case <-done:
		default:
			close(done)
		}
		cancel()
	}
	return ctx, stop
}
