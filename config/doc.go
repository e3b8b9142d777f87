// Package config loads dataprep configuration from a YAML file, a .env file
// and the environment.
//
// Values are layered in that order. Environment variables use the DATAPREP_
// prefix and a double underscore between nesting levels:
//
//	DATAPREP_CACHE__PROVIDER=redis
//	DATAPREP_CACHE__REDIS__ADDR=localhost:6379
//
// # Usage
//
//	var cfg AppConfig
//	if err := config.Load("dataprep", &cfg, config.WithConfigFile(path)); err != nil {
//		return err
//	}
package config
