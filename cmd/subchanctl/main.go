package main

import (
	"fmt"
	"os"

	"github.com/btcsuite/btclog/v2"
	"github.com/lightningnetwork/dlc-subchannel/build"
	"github.com/lightningnetwork/dlc-subchannel/dlccfg"
	"github.com/urfave/cli"
)

// Subsystem is the logging code of the tool itself.
const Subsystem = "SCTL"

// log is the logger of the tool. It stays disabled for the commands that
// don't load the config.
var log = btclog.Disabled

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[subchanctl] %v\n", err)
	os.Exit(1)
}

// loadConfig loads the config, passing on the global flags that were set
// explicitly, and sets up logging. The returned cleanup closes the log file.
func loadConfig(ctx *cli.Context) (*dlccfg.Config, func(), error) {
	var args []string
	for _, name := range []string{
		"appdir", "configfile", "datadir", "debuglevel",
	} {
		if ctx.GlobalIsSet(name) {
			args = append(args, fmt.Sprintf("--%s=%s", name,
				ctx.GlobalString(name)))
		}
	}

	cfg, err := dlccfg.LoadConfig(args)
	if err != nil {
		return nil, nil, err
	}

	root, logWriter, err := dlccfg.InitLogging(cfg, nil)
	if err != nil {
		return nil, nil, err
	}

	dlccfg.AddSubLogger(root, Subsystem, nil, func(l btclog.Logger) {
		log = l
	})

	if err := dlccfg.ApplyDebugLevel(cfg, root); err != nil {
		_ = logWriter.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if err := logWriter.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "unable to close log: %v\n", err)
		}
	}

	return cfg, cleanup, nil
}

func main() {
	app := cli.NewApp()
	app.Name = "subchanctl"
	app.Version = fmt.Sprintf("deployment=%v logging=%v",
		build.Deployment, build.LoggingType)
	app.Usage = "inspect and replay DLC sub-channel messages"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:      "appdir",
			Value:     dlccfg.DefaultAppDir,
			Usage:     "The path to the tool's base directory.",
			TakesFile: true,
		},
		cli.StringFlag{
			Name:      "configfile",
			Value:     dlccfg.DefaultConfigFile,
			Usage:     "The path to the config file.",
			TakesFile: true,
		},
		cli.StringFlag{
			Name:      "datadir",
			Usage:     "The directory of the session database.",
			TakesFile: true,
		},
		cli.StringFlag{
			Name: "debuglevel",
			Usage: "The log level for all subsystems, or " +
				"<subsystem>=<level> pairs.",
		},
	}
	app.Commands = []cli.Command{
		decodeCommand,
		encodeCloseCommand,
		replayCommand,
		listSessionsCommand,
		forgetSessionCommand,
	}

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}
