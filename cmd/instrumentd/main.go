// instrumentd hosts fxinstrument components behind an HTTP router serving
// health and Prometheus metrics.
//
// Usage:
//
//	instrumentd [--config instrumentd.yaml] [--http-address :8080]
//	instrumentd validate --config instrumentd.yaml
//
// The configuration file is YAML or JSON; see config.Config for the keys.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/fxinstrument/v1/config"
)

// Version is set with -ldflags "-X main.Version=...".
var Version = "0.1.0-dev"

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := createApp().Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func createApp() *cli.Command {
	return &cli.Command{
		Name:    "instrumentd",
		Usage:   "run instrumented components with health and metrics endpoints",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML or JSON configuration file",
				Sources: cli.EnvVars("INSTRUMENTD_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "http-address",
				Usage: "listen address of the router, overrides http.address",
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "validate",
				Usage:  "load the configuration and check the dependency graph",
				Action: validate,
			},
		},
	}
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadFile(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if cmd.IsSet("http-address") {
		cfg.HTTP.Address = cmd.String("http-address")
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	app := fx.New(options(cfg), withZapEvents)
	if err := app.Start(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	return app.Stop(stopCtx)
}

func validate(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := fx.ValidateApp(options(cfg)); err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.Root().Writer, "configuration ok")
	return err
}
