// Command chainweb-mining-worker wires startup configuration to a
// mining supervisor and an HTTP submit/poll server -- the process
// entry point that spec.md explicitly keeps out of the core's scope.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/kadena-io/chainweb-mining-worker/api"
	"github.com/kadena-io/chainweb-mining-worker/chainweb"
	"github.com/kadena-io/chainweb-mining-worker/internal/config"
	"github.com/kadena-io/chainweb-mining-worker/internal/log"
	"github.com/kadena-io/chainweb-mining-worker/mining"
	"github.com/kadena-io/chainweb-mining-worker/pow"
)

// shutdownGrace bounds how long a SIGTERM/SIGINT shutdown waits for
// the API server and supervisor to drain before main returns anyway.
const shutdownGrace = 5 * time.Second

func timeNow() time.Time { return time.Now() }

var (
	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	coresFlag = cli.UintFlag{
		Name:  "cores",
		Usage: "number of parallel mining workers",
	}
	versionFlag = cli.StringFlag{
		Name:  "version",
		Usage: "chainweb network version (test, simulation, testnet00)",
	}
	listenFlag = cli.StringFlag{
		Name:  "listen",
		Usage: "HTTP listen address for the submit/poll API",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "chainweb-mining-worker"
	app.Usage = "out-of-process proof-of-work mining worker"
	app.Flags = []cli.Flag{configFileFlag, coresFlag, versionFlag, listenFlag}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Crit("fatal error", "err", err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	cfg := config.Default()
	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		if err := config.Load(file, &cfg); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}
	if ctx.GlobalIsSet(coresFlag.Name) {
		cfg.Cores = uint16(ctx.GlobalUint(coresFlag.Name))
	}
	if ctx.GlobalIsSet(versionFlag.Name) {
		cfg.Version = ctx.GlobalString(versionFlag.Name)
	}
	if ctx.GlobalIsSet(listenFlag.Name) {
		cfg.ListenAddr = ctx.GlobalString(listenFlag.Name)
	}

	version, err := chainweb.ParseVersion(cfg.Version)
	if err != nil {
		return fmt.Errorf("parsing version %q: %w", cfg.Version, err)
	}

	sup, err := mining.New(chainweb.SimpleDecoder{}, version, int(cfg.Cores), pow.Clock(timeNow))
	if err != nil {
		return fmt.Errorf("constructing supervisor: %w", err)
	}

	srv := api.NewServer(sup, cfg.ListenAddr)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("api server exited", "err", err)
		}
	case sig := <-sigCh:
		log.Info("shutting down", "signal", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("api server shutdown error", "err", err)
	}
	return sup.Shutdown(shutdownCtx)
}
