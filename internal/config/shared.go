package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Source struct {
		AudioURI       string `mapstructure:"audio_uri"`
		TranscriptPath string `mapstructure:"transcript_path"`
		RecordingKey   string `mapstructure:"recording_key"`
		Title          string `mapstructure:"title"`
	} `mapstructure:"source"`
	Storage struct {
		KeyID    string `mapstructure:"key_id"`
		AppKey   string `mapstructure:"app_key"`
		Endpoint string `mapstructure:"endpoint"`
		Region   string `mapstructure:"region"`
		TempDir  string `mapstructure:"temp_dir"`
	} `mapstructure:"storage"`
	Player struct {
		UpdateIntervalMillis int               `mapstructure:"update_interval_ms"`
		Output               string            `mapstructure:"output"`
		LogLevel             string            `mapstructure:"log_level"`
		SpeakerSides         map[string]string `mapstructure:"speaker_sides"`
		VisibleEntries       int               `mapstructure:"visible_entries"`
	} `mapstructure:"player"`
	Ingest struct {
		Dir             string `mapstructure:"dir"`
		PollingInterval int    `mapstructure:"polling_interval"`
	} `mapstructure:"ingest"`
	Server struct {
		Port        string `mapstructure:"port"`
		MetricsPort string `mapstructure:"metrics_port"`
		JWTSecret   string `mapstructure:"jwt_secret"`
	} `mapstructure:"server"`
	Database struct {
		Driver   string `mapstructure:"driver"`
		Path     string `mapstructure:"path"`
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
}

// Load reads config.yaml (optional) and PLAYER_* environment variables.
func Load() *Config {
	v := viper.New()
	v.SetEnvPrefix("PLAYER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Source
	v.BindEnv("source.audio_uri")
	v.BindEnv("source.transcript_path")
	v.BindEnv("source.recording_key")
	v.BindEnv("source.title")

	// Storage
	v.BindEnv("storage.key_id")
	v.BindEnv("storage.app_key")
	v.BindEnv("storage.endpoint")
	v.BindEnv("storage.region")
	v.BindEnv("storage.temp_dir")

	// Player
	v.BindEnv("player.update_interval_ms")
	v.BindEnv("player.output")
	v.BindEnv("player.log_level")
	v.BindEnv("player.visible_entries")

	// Ingest
	v.BindEnv("ingest.dir")
	v.BindEnv("ingest.polling_interval")

	// Server
	v.BindEnv("server.port")
	v.BindEnv("server.metrics_port")
	v.BindEnv("server.jwt_secret")

	// Database
	v.BindEnv("database.driver")
	v.BindEnv("database.path")
	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.name")

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("../")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: Config error: %s", err)
		} else {
			log.Println("Info: config.yaml not found, using Environment Variables only.")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}

	return &cfg
}

// RequireSource stops the process when no audio source is configured.
func (c *Config) RequireSource() {
	if c.Source.AudioURI == "" {
		log.Fatal("Critical: audio source is missing (PLAYER_SOURCE_AUDIO_URI)")
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.recording_key", "default")
	v.SetDefault("storage.temp_dir", "/tmp/")
	v.SetDefault("storage.region", "us-east-1")

	// 500ms matches the status cadence of most mobile audio engines
	v.SetDefault("player.update_interval_ms", 500)
	v.SetDefault("player.output", "none")
	v.SetDefault("player.log_level", "info")
	v.SetDefault("player.visible_entries", 6)

	v.SetDefault("ingest.dir", "./recordings")
	v.SetDefault("ingest.polling_interval", 0)

	v.SetDefault("server.port", ":8081")
	v.SetDefault("server.metrics_port", ":9091")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/player.db")
}
