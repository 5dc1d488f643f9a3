// Package config loads service configuration from a YAML file, .env files
// and the process environment using Viper.
//
// Files are located relative to the working directory, starting at
// ./cmd/<service>/config.yml. Every environment variable is bound onto the
// nested keys it could address, so TELEGRAM_WEBHOOK_SECRET overrides
// telegram.webhook_secret without per-key registration.
//
// # Usage
//
//	var cfg bot.Config
//	if err := config.LoadConfig("voicy", &cfg); err != nil {
//	    return err
//	}
package config
