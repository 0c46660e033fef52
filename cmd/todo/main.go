// Package main is the entry point for the todo CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ChequeMan/FRONTTODOList/internal/backend/resttodo"
	"github.com/ChequeMan/FRONTTODOList/internal/cli"
	"github.com/ChequeMan/FRONTTODOList/internal/commands"
	"github.com/ChequeMan/FRONTTODOList/internal/config"
	"github.com/ChequeMan/FRONTTODOList/internal/credentials"
	"github.com/ChequeMan/FRONTTODOList/internal/logging"
	"github.com/ChequeMan/FRONTTODOList/internal/session"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create session factory: credential store + REST backend
	factory := func(ctx context.Context, cfg *config.Config) (*session.Manager, func(), error) {
		if err := cfg.EnsureDir(); err != nil {
			return nil, nil, err
		}
		store, err := credentials.Open(cfg.SessionPath())
		if err != nil {
			return nil, nil, err
		}
		logger := logging.New(os.Stderr, cfg.Debug)
		svc := resttodo.New(cfg.APIURL, store, logger)
		cleanup := func() { store.Close() }
		return session.NewManager(svc, store), cleanup, nil
	}

	// Create dispatcher
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	// Run and exit with code
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
