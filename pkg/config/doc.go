// Package config loads typed configuration from environment variables using
// github.com/caarlos0/env/v11. Optional dotenv files are read first with
// github.com/joho/godotenv; variables already present in the environment win.
//
//	type Config struct {
//	    Addr    string        `env:"HTTP_ADDR" envDefault:":8080"`
//	    Timeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"5s"`
//	    Secret  string        `env:"JWT_SECRET,required"`
//	}
//
//	cfg, err := config.Load[Config](config.WithEnvFiles(".env"))
//
// Nested structs are supported, with env prefixes for composing component
// configurations into one application struct.
package config
