package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DB     DBConfig
	Server ServerConfig
	Seeder SeederConfig
	Log    LogConfig
	Map    MapConfig
}

// DBType represents database type
type DBType string

const (
	DBTypePostgreSQL DBType = "postgres"
	DBTypeMemory     DBType = "memory"
)

// DBConfig holds database configuration
type DBConfig struct {
	Type     DBType
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// SeederConfig holds settings for reference data import
type SeederConfig struct {
	DataDir   string
	BatchSize int
}

// LogConfig holds logger settings. An empty File disables file output.
type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// MapConfig holds the marker resources and initial viewport handed to the map client
type MapConfig struct {
	TileURL       string
	CenterLat     float64
	CenterLon     float64
	Zoom          int
	IconURL       string
	IconRetinaURL string
	ShadowURL     string
}

// DSN returns the database connection string
func (c DBConfig) DSN() string {
	if c.Type == DBTypeMemory {
		if c.Name != "" && c.Name != "mayday" {
			return fmt.Sprintf("file:%s?mode=memory&cache=shared", c.Name)
		}
		return "file::memory:?cache=shared"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// IsMemory returns true if using in-memory database
func (c DBConfig) IsMemory() bool {
	return c.Type == DBTypeMemory
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port             string
	CORSAllowOrigins []string
}

// Load reads configuration from the environment, after merging a .env file when one exists.
// Unparseable values fall back to defaults; out-of-range values are an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbType := DBType(getEnv("DB_TYPE", "memory"))
	if dbType != DBTypePostgreSQL && dbType != DBTypeMemory {
		dbType = DBTypeMemory
	}

	origins := getEnvAsList("CORS_ALLOW_ORIGINS")
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	cfg := &Config{
		DB: DBConfig{
			Type:     dbType,
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "mayday"),
			Password: getEnv("DB_PASSWORD", "mayday_password"),
			Name:     getEnv("DB_NAME", "mayday"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port:             getEnv("APP_PORT", "8080"),
			CORSAllowOrigins: origins,
		},
		Seeder: SeederConfig{
			DataDir:   getEnv("SEEDER_DATA_DIR", "data"),
			BatchSize: getEnvAsInt("SEEDER_BATCH_SIZE", 500),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 28),
			Compress:   getEnvAsBool("LOG_COMPRESS", true),
		},
		Map: MapConfig{
			TileURL:       getEnv("MAP_TILE_URL", "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"),
			CenterLat:     getEnvAsFloat("MAP_CENTER_LAT", 23.5),
			CenterLon:     getEnvAsFloat("MAP_CENTER_LON", 121),
			Zoom:          getEnvAsInt("MAP_ZOOM", 7),
			IconURL:       getEnv("MAP_ICON_URL", "/assets/marker-icon.png"),
			IconRetinaURL: getEnv("MAP_ICON_RETINA_URL", "/assets/marker-icon-2x.png"),
			ShadowURL:     getEnv("MAP_SHADOW_URL", "/assets/marker-shadow.png"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Seeder.BatchSize < 1 {
		return fmt.Errorf("SEEDER_BATCH_SIZE must be positive, got %d", c.Seeder.BatchSize)
	}
	if c.Map.CenterLat < -90 || c.Map.CenterLat > 90 {
		return fmt.Errorf("MAP_CENTER_LAT out of range: %g", c.Map.CenterLat)
	}
	if c.Map.CenterLon < -180 || c.Map.CenterLon > 180 {
		return fmt.Errorf("MAP_CENTER_LON out of range: %g", c.Map.CenterLon)
	}
	if c.Map.Zoom < 0 || c.Map.Zoom > 19 {
		return fmt.Errorf("MAP_ZOOM must be within 0..19, got %d", c.Map.Zoom)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// envParsed returns fallback when key is unset or parse rejects its value.
func envParsed[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsInt(key string, fallback int) int {
	return envParsed(key, fallback, strconv.Atoi)
}

func getEnvAsFloat(key string, fallback float64) float64 {
	return envParsed(key, fallback, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

func getEnvAsBool(key string, fallback bool) bool {
	return envParsed(key, fallback, strconv.ParseBool)
}

// getEnvAsList splits a comma separated value, dropping blank entries.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
