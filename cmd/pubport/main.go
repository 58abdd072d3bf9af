package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tdex-network/pubport/internal/config"
	"github.com/tdex-network/pubport/pkg/pubport"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var version = "dev"

var (
	networkFlag = cli.StringFlag{
		Name:  "network",
		Usage: "only accept keys of this network: mainnet or testnet",
	}
	scriptTypeFlag = cli.StringFlag{
		Name:  "script-type",
		Usage: "script type of keys that do not carry one: p2pkh, p2sh-p2wpkh, p2wpkh or p2tr",
	}
	logLevelFlag = cli.IntFlag{
		Name:  "log-level",
		Usage: "logrus level, from 0 (panic) to 6 (trace)",
	}
	jsonFlag = cli.BoolFlag{
		Name:  "json",
		Usage: "print the result as JSON",
	}
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Version = version
	app.Name = "pubport"
	app.Usage = "Import watch-only wallets from any export format as output descriptors"
	app.Flags = []cli.Flag{
		&networkFlag,
		&scriptTypeFlag,
		&logLevelFlag,
		&jsonFlag,
	}
	app.Before = initConfig
	app.Commands = append(
		app.Commands,
		&resolve,
		&addresses,
		&checksum,
	)
	return app
}

// initConfig loads the environment configuration and applies the global
// flags on top of it.
func initConfig(ctx *cli.Context) error {
	if err := config.InitConfig(); err != nil {
		return err
	}
	if ctx.IsSet(networkFlag.Name) {
		config.Set(config.NetworkKey, ctx.String(networkFlag.Name))
	}
	if ctx.IsSet(scriptTypeFlag.Name) {
		config.Set(config.ScriptTypeKey, ctx.String(scriptTypeFlag.Name))
	}
	if ctx.IsSet(logLevelFlag.Name) {
		config.Set(config.LogLevelKey, ctx.Int(logLevelFlag.Name))
	}
	if ctx.Bool(jsonFlag.Name) {
		config.Set(config.OutputKey, config.OutputJSON)
	}
	if err := config.Validate(); err != nil {
		return err
	}

	log.SetOutput(ctx.App.ErrWriter)
	log.SetLevel(config.GetLogLevel())
	return nil
}

func newResolver() *pubport.Resolver {
	opts := []pubport.Option{
		pubport.WithScriptType(config.GetScriptType()),
		pubport.WithLogger(log.StandardLogger()),
	}
	if net, ok := config.GetNetwork(); ok {
		opts = append(opts, pubport.WithNetwork(net))
	}
	return pubport.NewResolver(opts...)
}

// readInput reads the file named by the first argument, or stdin when the
// argument is missing or "-".
func readInput(ctx *cli.Context) (string, error) {
	var (
		b   []byte
		err error
	)
	switch name := ctx.Args().First(); name {
	case "", "-":
		b, err = io.ReadAll(ctx.App.Reader)
	default:
		b, err = os.ReadFile(name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(b), nil
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[pubport] %v\n", err)
	}
	os.Exit(1)
}
