package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type StorageConfig struct {
	UploadDir string `yaml:"uploadDir"`
	OutputDir string `yaml:"outputDir"`
}

type LimitsConfig struct {
	MaxFileSizeMB int    `yaml:"maxFileSizeMB"`
	FileSuffix    string `yaml:"fileSuffix"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	URL string `yaml:"url"`
}

type RateLimitConfig struct {
	DefaultPerMinute int `yaml:"defaultPerMinute"`
}

type WorkerConfig struct {
	MaxConcurrentJobs int `yaml:"maxConcurrentJobs"`
	PollIntervalMs    int `yaml:"pollIntervalMs"`
}

// RetentionConfig controls TTL-like deletion of terminal jobs and their
// upload/output directories so that disk usage does not grow without bound.
type RetentionConfig struct {
	Enabled                bool `yaml:"enabled"`
	CleanupIntervalMinutes int  `yaml:"cleanupIntervalMinutes"`
	CompletedTTLMinutes    int  `yaml:"completedTTLMinutes"`
	FailedTTLMinutes       int  `yaml:"failedTTLMinutes"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Limits    LimitsConfig    `yaml:"limits"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
	Worker    WorkerConfig    `yaml:"worker"`
	Retention RetentionConfig `yaml:"retention"`
}

// MaxFileSizeBytes returns the configured upload size cap in bytes,
// falling back to 100 MB when unset.
func (l LimitsConfig) MaxFileSizeBytes() int64 {
	mb := l.MaxFileSizeMB
	if mb <= 0 {
		mb = 100
	}
	return int64(mb) * 1024 * 1024
}

// Suffix returns the accepted upload filename suffix, ".jar" by default.
func (l LimitsConfig) Suffix() string {
	if l.FileSuffix == "" {
		return ".jar"
	}
	return l.FileSuffix
}

func Load(path string) *Config {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("failed to open config file: %v", err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		log.Fatalf("failed to decode config: %v", err)
	}

	return &cfg
}
