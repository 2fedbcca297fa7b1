package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBPort            string
	AppPort           string
	AppEnv            string
	IdentityJWTSecret string
	StorageURL        string
	StorageKey        string
	StorageBucket     string
	TownTimezone      string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:            os.Getenv("DB_HOST"),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            os.Getenv("DB_NAME"),
		DBPort:            os.Getenv("DB_PORT"),
		AppPort:           os.Getenv("APP_PORT"),
		AppEnv:            os.Getenv("APP_ENV"),
		IdentityJWTSecret: os.Getenv("IDENTITY_JWT_SECRET"),
		StorageURL:        os.Getenv("STORAGE_URL"),
		StorageKey:        os.Getenv("STORAGE_KEY"),
		StorageBucket:     os.Getenv("STORAGE_BUCKET"),
		TownTimezone:      os.Getenv("TOWN_TZ"),
	}

	if cfg.AppPort == "" {
		cfg.AppPort = "8000"
	}
	if cfg.StorageBucket == "" {
		cfg.StorageBucket = "townbasket"
	}
	if cfg.TownTimezone == "" {
		cfg.TownTimezone = "Asia/Kolkata"
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}
