package cmdutil

import (
	"log/slog"
	"sync"

	"github.com/agentic-docs/docintel/internal/config"
	"github.com/agentic-docs/docintel/internal/logging"
)

var (
	mu         sync.RWMutex
	cfg        *config.Config
	logManager = logging.NewManager()
)

func init() {
	slog.SetDefault(logManager.Logger())
}

// SetConfig stores the configuration loaded by the root command's
// PersistentPreRunE, for subcommands to read via Config.
func SetConfig(c *config.Config) {
	mu.Lock()
	defer mu.Unlock()
	cfg = c
}

// Config returns the configuration set by SetConfig, or nil before the
// root command's PersistentPreRunE has run.
func Config() *config.Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// Logger returns the process-wide logger. Before LoadAndUpgradeLogging
// runs it writes plain text to stderr; afterward it matches the
// configured level and destination.
func Logger() *slog.Logger {
	return logManager.Logger()
}

// LoadAndUpgradeLogging loads configuration from configPath, or standard
// search locations when configPath is empty, stores it for Config, and
// upgrades the bootstrap logger to the configured level and log file.
func LoadAndUpgradeLogging(configPath string) (*config.Config, error) {
	var loaded *config.Config
	var err error
	if configPath != "" {
		loaded, err = config.LoadFromPath(configPath)
	} else {
		loaded, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	SetConfig(loaded)

	logger := logManager.Logger()
	level, ok := logging.ParseLevel(loaded.LogLevel)
	if !ok && loaded.LogLevel != "" {
		logger.Warn("invalid log level configured, using default", "configured", loaded.LogLevel)
	}
	if loaded.LogFile != "" {
		if err := logManager.Upgrade(loaded.LogFile, level); err != nil {
			logger.Warn("failed to enable file logging, continuing with stderr only", "error", err)
		}
	} else {
		logManager.SetLevel(level)
	}

	return loaded, nil
}

// CloseLogging flushes and closes the log file, if one was opened.
func CloseLogging() error {
	return logManager.Close()
}
