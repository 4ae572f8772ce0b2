// Command householdctl queries and seeds the household store from a terminal.
package main

import (
	"context"
	"os"

	"household/internal/backend"
	"household/internal/cli"
	"household/internal/log"
	"household/internal/ports"
)

func main() {
	root := newRootCmd(os.Stdout, openConfiguredStore)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// openConfiguredStore opens the store named by the environment. Record
// events are not published from the command line.
func openConfiguredStore(ctx context.Context) (ports.Store, func() error, error) {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	cfg.LogLevel = "warn"
	logger := cli.SetupLogger(cfg, log.ComponentCLI)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	backendCfg.AMQPURL = ""
	res, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend)).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, nil, err
	}
	return res.Store, res.Cleanup, nil
}
