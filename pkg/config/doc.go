// Package config loads application settings from environment variables.
//
// It combines github.com/joho/godotenv for .env files with
// github.com/caarlos0/env/v11 for tag based struct parsing:
//
//	type ServerConfig struct {
//		Addr string `env:"ADDR" envDefault:":8080"`
//	}
//
//	var cfg ServerConfig
//	config.MustLoad(&cfg, config.WithPrefix("HTTP_"))
//
// Process variables win over values read through WithFiles. Parsing errors
// wrap ErrParsingConfig and unreadable files wrap ErrReadingEnvFile.
package config
