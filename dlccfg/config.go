package dlccfg

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/jessevdk/go-flags"
	"github.com/lightningnetwork/dlc-subchannel/build"
	"github.com/lightningnetwork/lnd/kvdb"
)

const (
	defaultConfigFilename = "subchanctl.conf"
	defaultDataDirname    = "data"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "subchanctl.log"
)

var (
	// DefaultAppDir is the default directory holding the config file, the
	// session database and the logs.
	DefaultAppDir = btcutil.AppDataDir("subchanctl", false)

	// DefaultConfigFile is the default path of the config file.
	DefaultConfigFile = filepath.Join(DefaultAppDir, defaultConfigFilename)

	defaultDataDir = filepath.Join(DefaultAppDir, defaultDataDirname)
	defaultLogDir  = filepath.Join(DefaultAppDir, defaultLogDirname)
)

// Config holds the options of the sub-channel tooling.
//
//nolint:lll
type Config struct {
	AppDir     string `long:"appdir" description:"The base directory that contains the config file, the session database and the logs."`
	ConfigFile string `short:"C" long:"configfile" description:"Path to configuration file."`
	DataDir    string `short:"b" long:"datadir" description:"The directory to store the session database in."`
	LogDir     string `long:"logdir" description:"Directory to log output."`

	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <global-level>,<subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems."`

	DBTimeout time.Duration `long:"db.timeout" description:"The time to wait for the session database to be opened before giving up."`

	LogConfig *build.LogConfig `group:"logging" namespace:"logging"`
}

// DefaultConfig returns all default values for the Config struct.
func DefaultConfig() Config {
	return Config{
		AppDir:     DefaultAppDir,
		ConfigFile: DefaultConfigFile,
		DataDir:    defaultDataDir,
		LogDir:     defaultLogDir,
		DebugLevel: build.LogLevel,
		DBTimeout:  kvdb.DefaultDBTimeout,
		LogConfig:  build.DefaultLogConfig(),
	}
}

// LoadConfig initializes and parses the config using a config file and the
// given command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
func LoadConfig(args []string) (*Config, error) {
	// Pre-parse the command line options to pick up an alternative config
	// file.
	preCfg := DefaultConfig()
	if err := parseArgs(&preCfg, args); err != nil {
		return nil, err
	}

	// If the config file path has not been modified by the user, then
	// we'll use the default config file path. However, if the user has
	// modified their app dir, then we should assume they intend to use
	// the config file within it.
	appDir := CleanAndExpandPath(preCfg.AppDir)
	configFilePath := CleanAndExpandPath(preCfg.ConfigFile)
	if appDir != DefaultAppDir && configFilePath == DefaultConfigFile {
		configFilePath = filepath.Join(appDir, defaultConfigFilename)
	}

	// Next, load any additional configuration options from the file.
	var configFileError error
	cfg := preCfg
	iniParser := flags.NewIniParser(flags.NewParser(&cfg, flags.None))
	if err := iniParser.ParseFile(configFilePath); err != nil {
		// If it's a parsing related error, then we'll return
		// immediately, otherwise we can proceed as possibly the config
		// file doesn't exist which is OK.
		var iniErr *flags.IniError
		if errors.As(err, &iniErr) {
			return nil, err
		}

		configFileError = err
	}

	// Finally, parse the remaining command line options again to ensure
	// they take precedence.
	if err := parseArgs(&cfg, args); err != nil {
		return nil, err
	}

	cleanCfg, err := ValidateConfig(cfg)
	if err != nil {
		return nil, err
	}

	if configFileError != nil && !os.IsNotExist(configFileError) {
		return nil, configFileError
	}

	return cleanCfg, nil
}

// parseArgs parses the command line options into the config.
func parseArgs(cfg *Config, args []string) error {
	parser := flags.NewParser(cfg, flags.HelpFlag|flags.PassDoubleDash)
	_, err := parser.ParseArgs(args)

	return err
}

// ValidateConfig checks the given configuration to be sane and normalizes all
// file system paths. The cleaned up config is returned on success.
func ValidateConfig(cfg Config) (*Config, error) {
	// If the app directory is not the default, we'll move the data and
	// log directories within it unless they were set explicitly.
	appDir := CleanAndExpandPath(cfg.AppDir)
	if appDir != DefaultAppDir {
		if cfg.DataDir == defaultDataDir {
			cfg.DataDir = filepath.Join(appDir, defaultDataDirname)
		}
		if cfg.LogDir == defaultLogDir {
			cfg.LogDir = filepath.Join(appDir, defaultLogDirname)
		}
	}

	cfg.AppDir = appDir
	cfg.ConfigFile = CleanAndExpandPath(cfg.ConfigFile)
	cfg.DataDir = CleanAndExpandPath(cfg.DataDir)
	cfg.LogDir = CleanAndExpandPath(cfg.LogDir)

	if cfg.DBTimeout <= 0 {
		return nil, fmt.Errorf("db.timeout must be positive, got %v",
			cfg.DBTimeout)
	}

	if cfg.LogConfig == nil {
		cfg.LogConfig = build.DefaultLogConfig()
	}
	if err := cfg.LogConfig.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LogFile returns the path of the rotating log file.
func (c *Config) LogFile() string {
	return filepath.Join(c.LogDir, defaultLogFilename)
}

// CleanAndExpandPath expands environment variables and leading ~ in the passed
// path, cleans the result, and returns it.
func CleanAndExpandPath(path string) string {
	if path == "" {
		return ""
	}

	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		var homeDir string
		u, err := user.Current()
		if err == nil {
			homeDir = u.HomeDir
		} else {
			homeDir = os.Getenv("HOME")
		}

		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}
