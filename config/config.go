package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	CompilerBin  string
	CompilerArgs []string
	ScratchRoot  string

	CompileTimeout time.Duration
	MaxSourceBytes int
	LogExcerptMax  int

	MaxWorkers int
	QueueSize  int

	Engine       string // "local" or "docker"
	DockerImage  string
	DockerMemory int64
	DockerCPUs   int64

	Port        string
	NatsURL     string
	Environment string

	RatelimitInterval time.Duration
	WarmupOnStart     bool
}

func LoadConfig() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	return Config{
		CompilerBin:  getEnv("COMPILERBIN", "tectonic"),
		CompilerArgs: strings.Fields(getEnv("COMPILERARGS", "")),
		ScratchRoot:  getEnv("SCRATCHROOT", filepath.Join(os.TempDir(), "texengine")),

		CompileTimeout: getEnvDuration("COMPILETIMEOUT", 60*time.Second),
		MaxSourceBytes: getEnvInt("MAXSOURCEBYTES", 1<<20),
		LogExcerptMax:  getEnvInt("LOGEXCERPTMAX", 8192),

		MaxWorkers: getEnvInt("MAXWORKERS", 2),
		QueueSize:  getEnvInt("QUEUESIZE", 8),

		Engine:       getEnv("ENGINE", "local"),
		DockerImage:  getEnv("DOCKERIMAGE", "texlive/texlive"),
		DockerMemory: int64(getEnvInt("DOCKERMEMORYMB", 500)) * 1024 * 1024,
		DockerCPUs:   int64(getEnvInt("DOCKERNANOCPUS", 1000000000)),

		Port:        getEnv("PORT", "8080"),
		NatsURL:     getEnv("NATSURL", "nats://localhost:4222"),
		Environment: getEnv("ENVIRONMENT", "production"),

		RatelimitInterval: getEnvDuration("RATELIMITINTERVAL", 500*time.Millisecond),
		WarmupOnStart:     getEnvBool("WARMUPONSTART", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
