package markdocx

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config contains runtime configuration for the engine itself, as
// opposed to DocumentConfig which describes a single document.
type Config struct {
	// LogLevel controls the verbosity of logging (debug, info, warn, error)
	LogLevel string
	// MaxIncludeDepth controls the maximum nesting of @include directives
	MaxIncludeDepth int
	// StrictMode turns content errors (unresolved references, failed
	// renders) into build failures instead of visible fallbacks
	StrictMode bool
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

func init() {
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel:        "info",
		MaxIncludeDepth: 10,
		StrictMode:      false,
	}
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	// MARKDOCX_LOG_LEVEL
	if val := os.Getenv("MARKDOCX_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	// MARKDOCX_MAX_INCLUDE_DEPTH
	if val := os.Getenv("MARKDOCX_MAX_INCLUDE_DEPTH"); val != "" {
		if depth, err := strconv.Atoi(val); err == nil {
			config.MaxIncludeDepth = depth
		}
	}

	// MARKDOCX_STRICT_MODE
	if val := os.Getenv("MARKDOCX_STRICT_MODE"); val != "" {
		config.StrictMode = parseBool(val)
	}

	return config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}

	if !validLogLevels[c.LogLevel] {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	if c.MaxIncludeDepth <= 0 {
		return errors.New("max include depth must be positive")
	}

	return nil
}

// GetGlobalConfig returns the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}

	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	// Update logger outside the lock to avoid deadlock
	UpdateLoggerFromConfig()
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
