package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Client   ClientConfig
	Importer ImporterConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	PseudoUserID string // placeholder identity until real auth lands
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host            string
	Port            string
	Password        string
	DB              int
	CatalogCacheTTL time.Duration
}

type ClientConfig struct {
	Origin string
}

type ImporterConfig struct {
	FakeStoreURL  string
	ClearProducts bool
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("PSEUDO_USER_ID", "mock-user")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CATALOG_CACHE_TTL_SECONDS", 60)
	viper.SetDefault("CLIENT_ORIGIN", "http://localhost:5173")
	viper.SetDefault("FAKE_STORE_URL", "https://fakestoreapi.com/products")
	viper.SetDefault("CLEAR_PRODUCTS_FIRST", true)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Env:          viper.GetString("SERVER_ENV"),
			PseudoUserID: viper.GetString("PSEUDO_USER_ID"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:            viper.GetString("REDIS_HOST"),
			Port:            viper.GetString("REDIS_PORT"),
			Password:        viper.GetString("REDIS_PASSWORD"),
			DB:              viper.GetInt("REDIS_DB"),
			CatalogCacheTTL: time.Duration(viper.GetInt("CATALOG_CACHE_TTL_SECONDS")) * time.Second,
		},
		Client: ClientConfig{
			Origin: viper.GetString("CLIENT_ORIGIN"),
		},
		Importer: ImporterConfig{
			FakeStoreURL:  viper.GetString("FAKE_STORE_URL"),
			ClearProducts: viper.GetBool("CLEAR_PRODUCTS_FIRST"),
		},
	}
}
