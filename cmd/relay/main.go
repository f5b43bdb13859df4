// Package main starts the relay real-time service and handles termination.
//
// The process is a transport adapter around room lifecycle, state fan-out,
// and chat so application state remains owned by each room's host.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	relaycmd "github.com/aptuss/pepper-ws/internal/cmd/relay"
)

func main() {
	cfg, err := relaycmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[RELAY] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := relaycmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
