// Ininicializing common application configuration
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Replicate ReplicateConfig `mapstructure:"replicate"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Download  DownloadConfig  `mapstructure:"download"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
}

type ServerConfig struct {
	AppVersion   string        `mapstructure:"app_version"`
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Idle_timeout time.Duration `mapstructure:"idle_timeout"`
	Env          string        `mapstructure:"environment"`
	Mode         string        `mapstructure:"mode"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ReplicateConfig describes the hosted model endpoint. APIToken is the only
// required secret and normally comes from REPLICATE_API_TOKEN.
type ReplicateConfig struct {
	APIToken     string        `mapstructure:"api_token"`
	BaseURL      string        `mapstructure:"base_url"`
	WaitSeconds  int           `mapstructure:"wait_seconds"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type UploadConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
	MaxSide  int   `mapstructure:"max_side"` // 0 keeps the uploaded bytes untouched
}

type DownloadConfig struct {
	AllowedHosts []string      `mapstructure:"allowed_hosts"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

func LoadConfig() (*viper.Viper, error) {

	viperInstance := viper.New()

	viperInstance.AddConfigPath("./config")
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	setDefaults(viperInstance)

	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()
	if err := viperInstance.BindEnv("replicate.api_token", "REPLICATE_API_TOKEN"); err != nil {
		return nil, err
	}

	err := viperInstance.ReadInConfig()

	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {

	var c Config

	err := v.Unmarshal(&c)
	if err != nil {
		return nil, err
	}

	c.Replicate.APIToken = strings.TrimSpace(c.Replicate.APIToken)
	c.Kafka.Brokers = compact(c.Kafka.Brokers)
	c.Download.AllowedHosts = compact(c.Download.AllowedHosts)

	return &c, nil
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.app_version", "1.0.0")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.timeout", 6*time.Minute)
	v.SetDefault("server.idle_timeout", 90*time.Second)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("log.level", "info")

	// Replicate defaults
	v.SetDefault("replicate.api_token", "")
	v.SetDefault("replicate.base_url", "https://api.replicate.com/v1")
	v.SetDefault("replicate.wait_seconds", 60)
	v.SetDefault("replicate.poll_interval", time.Second)
	v.SetDefault("replicate.timeout", 5*time.Minute)

	// Upload defaults
	v.SetDefault("upload.max_bytes", 25<<20)
	v.SetDefault("upload.max_side", 0)

	// Download proxy defaults
	v.SetDefault("download.allowed_hosts", []string{"replicate.delivery", "*.replicate.delivery"})
	v.SetDefault("download.timeout", 60*time.Second)

	// Kafka defaults, empty brokers switch to the logging producer
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "adgen-generations")
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
