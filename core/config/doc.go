// Package config provides configuration management for the submission pipeline.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file loaded through godotenv.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Server: HTTP report server settings (port, API key)
//   - Database: MySQL connection details for the asset library
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//   - Submit: engine polling behavior
//   - Pond5 / Dreamstime: per-marketplace session cookie, base URL and timing
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Pond5.Page.BaseURL)
package config
