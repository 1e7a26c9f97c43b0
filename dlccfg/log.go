package dlccfg

import (
	"github.com/btcsuite/btclog/v2"
	"github.com/lightningnetwork/dlc-subchannel/build"
	"github.com/lightningnetwork/dlc-subchannel/subchandb"
	"github.com/lightningnetwork/dlc-subchannel/subchannel"
)

// SetupLoggers initializes all package-global logger variables.
func SetupLoggers(root *build.SubLoggerManager, shutdown func()) {
	AddSubLogger(root, subchannel.Subsystem, shutdown, subchannel.UseLogger)
	AddSubLogger(root, subchandb.Subsystem, shutdown, subchandb.UseLogger)
}

// AddSubLogger is a helper method to conveniently create and register the
// logger of one or more sub systems.
func AddSubLogger(root *build.SubLoggerManager, subsystem string,
	shutdown func(), useLoggers ...func(btclog.Logger)) {

	// Create and register just a single logger to prevent them from
	// overwriting each other internally.
	logger := root.GenSubLogger(subsystem, shutdown)
	for _, useLogger := range useLoggers {
		useLogger(logger)
	}
}

// InitLogging sets up the console and file logging described by the config.
// The returned manager holds the subsystem loggers, and the returned writer
// must be closed on shutdown.
func InitLogging(cfg *Config, shutdown func()) (*build.SubLoggerManager,
	*build.RotatingLogWriter, error) {

	logWriter := build.NewRotatingLogWriter()
	if !cfg.LogConfig.File.Disable {
		err := logWriter.InitLogRotator(
			cfg.LogConfig.File, cfg.LogFile(),
		)
		if err != nil {
			return nil, nil, err
		}
	}

	handler := build.NewDefaultLogHandler(cfg.LogConfig, logWriter)
	root := build.NewSubLoggerManager(handler)
	SetupLoggers(root, shutdown)

	return root, logWriter, nil
}

// ApplyDebugLevel applies the debug level of the config to every registered
// logger. It must be called after all loggers have been added.
func ApplyDebugLevel(cfg *Config, root *build.SubLoggerManager) error {
	return build.ParseAndSetDebugLevels(cfg.DebugLevel, root)
}
