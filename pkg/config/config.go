package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// RunDefaults carries the default robot parameters applied to a run when
// the caller omits a field.
type RunDefaults struct {
	RobotType      string  `mapstructure:"robot_type"`
	RobotPort      string  `mapstructure:"robot_port"`
	RobotID        string  `mapstructure:"robot_id"`
	StepFolder     string  `mapstructure:"step_folder"`
	PhotoFolder    string  `mapstructure:"photo_folder"`
	SecondsPerStep float64 `mapstructure:"seconds_per_step"`
	FPS            int     `mapstructure:"fps"`
	NumSteps       int     `mapstructure:"num_steps"`
	InterpSeconds  float64 `mapstructure:"interp_seconds"`
}

type Config struct {
	// Required fields
	ScriptsDir   string `mapstructure:"scripts_dir"`
	JWTSecretKey string `mapstructure:"jwt_secret_key"`

	// Script launcher settings
	PythonBin string `mapstructure:"python_bin"`
	LogsDir   string `mapstructure:"logs_dir"`
	DBPath    string `mapstructure:"db_path"`

	// Optional API settings
	APIHost string `mapstructure:"api_host"`
	APIPort int    `mapstructure:"api_port"`

	// Optional SSL settings
	SSLCert string `mapstructure:"ssl_cert"`
	SSLKey  string `mapstructure:"ssl_key"`

	// Optional CORS settings
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Optional JWT settings
	JWTAlgorithm string `mapstructure:"jwt_algorithm"`

	// Default robot parameters for runs
	Defaults RunDefaults `mapstructure:"defaults"`

	ConfigPath string
}

const (
	DefaultConfigPath   = "/etc/lerobot-panorama/config.yml"
	DefaultDBPath       = "/var/lib/lerobot-panorama/db.sqlite3"
	DefaultAPIHost      = "0.0.0.0"
	DefaultAPIPort      = 5000
	DefaultPythonBin    = "python3"
	DefaultLogsDir      = "logs"
	DefaultJWTAlgorithm = "HS256"
)

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// Set defaults
	viper.SetDefault("python_bin", DefaultPythonBin)
	viper.SetDefault("logs_dir", DefaultLogsDir)
	viper.SetDefault("db_path", DefaultDBPath)
	viper.SetDefault("api_host", DefaultAPIHost)
	viper.SetDefault("api_port", DefaultAPIPort)
	viper.SetDefault("jwt_algorithm", DefaultJWTAlgorithm)

	// Robot parameter defaults match the original operator panel
	viper.SetDefault("defaults.robot_type", "so101_follower")
	viper.SetDefault("defaults.robot_port", "COM4")
	viper.SetDefault("defaults.robot_id", "my_awesome_follower_arm")
	viper.SetDefault("defaults.step_folder", "robot_steps")
	viper.SetDefault("defaults.photo_folder", "photos")
	viper.SetDefault("defaults.seconds_per_step", 4.0)
	viper.SetDefault("defaults.fps", 60)
	viper.SetDefault("defaults.num_steps", 6)
	viper.SetDefault("defaults.interp_seconds", 1.0)

	// Allow environment variable overrides
	viper.AutomaticEnv()
	viper.SetEnvPrefix("LEROBOT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.ConfigPath = configPath

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.ScriptsDir == "" {
		return fmt.Errorf("scripts_dir is required")
	}

	if _, err := os.Stat(c.ScriptsDir); os.IsNotExist(err) {
		return fmt.Errorf("scripts_dir does not exist: %s", c.ScriptsDir)
	}

	if c.JWTSecretKey == "" {
		return fmt.Errorf("jwt_secret_key is required")
	}

	// Validate SSL config if provided
	if c.SSLCert != "" || c.SSLKey != "" {
		if c.SSLCert == "" || c.SSLKey == "" {
			return fmt.Errorf("both ssl_cert and ssl_key must be provided")
		}
		if _, err := os.Stat(c.SSLCert); os.IsNotExist(err) {
			return fmt.Errorf("ssl_cert file does not exist: %s", c.SSLCert)
		}
		if _, err := os.Stat(c.SSLKey); os.IsNotExist(err) {
			return fmt.Errorf("ssl_key file does not exist: %s", c.SSLKey)
		}
	}

	return nil
}

func (c *Config) IsDevMode() bool {
	return os.Getenv("LEROBOT_DEV_MODE") == "1"
}
