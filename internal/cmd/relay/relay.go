// Package relay parses relay command flags and composes transport entrypoints.
package relay

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/aptuss/pepper-ws/internal/platform/cmd"
	server "github.com/aptuss/pepper-ws/internal/services/relay/app"
)

// Config holds relay command configuration.
type Config struct {
	HTTPAddr string `env:"PEPPER_WS_HTTP_ADDR" envDefault:":8080"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "relay HTTP listen address")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run builds the relay app and starts realtime transport behavior.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceRelay, func(context.Context) error {
		if err := server.Run(ctx, server.Config{
			HTTPAddr: cfg.HTTPAddr,
		}); err != nil {
			return fmt.Errorf("serve relay: %w", err)
		}
		return nil
	})
}
