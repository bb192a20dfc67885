// Package config reads server configuration from HEARTH_* environment
// variables with sensible defaults.
package config

import (
	"os"
	"time"
)

type Config struct {
	Port     string
	DBPath   string
	LogLevel string
	LogJSON  bool

	WeatherLatitude  string
	WeatherLongitude string
	WeatherUnits     string

	CalendarBaseURL   string
	CalendarID        string
	CalendarToken     string
	CalendarLookahead time.Duration

	IconServiceURL string
	IconServiceKey string

	PhotoServiceURL string
	PhotoServiceKey string

	ProfileUserinfoURL string

	S3Endpoint  string
	S3Bucket    string
	S3Region    string
	S3AccessKey string
	S3SecretKey string

	VAPIDPublicKey  string
	VAPIDPrivateKey string
}

// Load reads configuration from the environment.
func Load() *Config {
	return &Config{
		Port:     getEnv("HEARTH_PORT", "8080"),
		DBPath:   getEnv("HEARTH_DB_PATH", "hearth.db"),
		LogLevel: getEnv("HEARTH_LOG_LEVEL", "info"),
		LogJSON:  os.Getenv("HEARTH_LOG_JSON") == "true",

		WeatherLatitude:  os.Getenv("HEARTH_WEATHER_LAT"),
		WeatherLongitude: os.Getenv("HEARTH_WEATHER_LON"),
		WeatherUnits:     getEnv("HEARTH_WEATHER_UNITS", "fahrenheit"),

		CalendarBaseURL:   os.Getenv("HEARTH_CALENDAR_URL"),
		CalendarID:        getEnv("HEARTH_CALENDAR_ID", "primary"),
		CalendarToken:     os.Getenv("HEARTH_CALENDAR_TOKEN"),
		CalendarLookahead: getEnvDuration("HEARTH_CALENDAR_LOOKAHEAD", 14*24*time.Hour),

		IconServiceURL: os.Getenv("HEARTH_ICON_URL"),
		IconServiceKey: os.Getenv("HEARTH_ICON_KEY"),

		PhotoServiceURL: os.Getenv("HEARTH_PHOTOS_URL"),
		PhotoServiceKey: os.Getenv("HEARTH_PHOTOS_KEY"),

		ProfileUserinfoURL: getEnv("HEARTH_PROFILE_USERINFO_URL", "https://openidconnect.googleapis.com/v1/userinfo"),

		S3Endpoint:  os.Getenv("HEARTH_S3_ENDPOINT"),
		S3Bucket:    os.Getenv("HEARTH_S3_BUCKET"),
		S3Region:    getEnv("HEARTH_S3_REGION", "auto"),
		S3AccessKey: os.Getenv("HEARTH_S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("HEARTH_S3_SECRET_KEY"),

		VAPIDPublicKey:  os.Getenv("HEARTH_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("HEARTH_VAPID_PRIVATE_KEY"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
