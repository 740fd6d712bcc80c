// Package config loads the toolbox configuration from a YAML file,
// OVTOOLBOX_ environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. OVTOOLBOX_SERIAL_PORT.
const EnvPrefix = "OVTOOLBOX"

// SerialConfig selects and configures the serial link to the device.
type SerialConfig struct {
	// Port is an explicit device path; empty means discover by VID/PID
	Port              string        `mapstructure:"port"`
	VID               string        `mapstructure:"vid"`
	PID               string        `mapstructure:"pid"`
	BaudRate          int           `mapstructure:"baudRate"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`
	DiscoveryInterval time.Duration `mapstructure:"discoveryInterval"`
}

// OutputConfig controls where retrieved flights are written.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// LumberjackConfig configures log file rotation.
type LumberjackConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggingConfig holds the log level and outputs.
type LoggingConfig struct {
	Level  string           `mapstructure:"level"`
	Format string           `mapstructure:"format"`
	File   LumberjackConfig `mapstructure:"file"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Textfile string `mapstructure:"textfile"`
}

// Config is the top level configuration.
type Config struct {
	Serial  SerialConfig  `mapstructure:"serial"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// Load reads the configuration from a YAML file and environment variables.
// With an empty path the file named by $OVTOOLBOX_CONFIG is used, then
// ovtoolbox.yaml in the working directory or ./configs. A missing file is
// not an error: defaults and environment apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.SetConfigName("ovtoolbox")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that viper cannot check by type.
func (c *Config) Validate() error {
	if c.Serial.Port == "" && (c.Serial.VID == "" || c.Serial.PID == "") {
		return fmt.Errorf("invalid config: serial.vid and serial.pid are required without serial.port")
	}
	if c.Serial.BaudRate <= 0 {
		return fmt.Errorf("invalid config: serial.baudRate must be positive, got %d", c.Serial.BaudRate)
	}
	if c.Serial.ReadTimeout <= 0 {
		return fmt.Errorf("invalid config: serial.readTimeout must be positive, got %s", c.Serial.ReadTimeout)
	}
	if c.Serial.DiscoveryInterval <= 0 {
		return fmt.Errorf("invalid config: serial.discoveryInterval must be positive, got %s", c.Serial.DiscoveryInterval)
	}
	if c.Metrics.Enable && c.Metrics.Textfile == "" {
		return fmt.Errorf("invalid config: metrics.textfile is required when metrics are enabled")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("serial.port", "")
	v.SetDefault("serial.vid", "0483")
	v.SetDefault("serial.pid", "5740")
	v.SetDefault("serial.baudRate", 115200)
	v.SetDefault("serial.readTimeout", "2s")
	v.SetDefault("serial.discoveryInterval", "1s")

	v.SetDefault("output.dir", defaultOutputDir())

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.filename", "")
	v.SetDefault("logging.file.maxSize", 10)
	v.SetDefault("logging.file.maxBackups", 3)
	v.SetDefault("logging.file.maxAge", 30)
	v.SetDefault("logging.file.compress", false)

	v.SetDefault("metrics.enable", false)
	v.SetDefault("metrics.textfile", "")
}

func defaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
