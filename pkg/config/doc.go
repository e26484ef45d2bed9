// Package config loads application configuration from environment variables
// into tagged structs. A .env file in the working directory is loaded once,
// if present, before the environment is read.
//
// Example:
//
//	type APIConfig struct {
//		BaseURL string        `env:"WANDERLUST_API_URL" envDefault:"http://localhost:5000/api"`
//		Timeout time.Duration `env:"WANDERLUST_API_TIMEOUT" envDefault:"30s"`
//	}
//
//	var cfg APIConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
package config
