// Package config provides centralized configuration management for the
// report service and CLI.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML configuration file
//	3. Default values (lowest priority)
//
// The file is taken from YMR_CONFIG_FILE, or the first of config.yaml,
// configs/config.yaml, ../configs/config.yaml that exists.
//
// # Environment Variables
//
// All environment variables follow the pattern YMR_<SECTION>_<KEY>:
//
//	YMR_SERVER_PORT=8080
//	YMR_PIPELINE_MODE=extended
//	YMR_PIPELINE_TIMEZONE=Asia/Riyadh
//	YMR_OUTPUT_FORMAT=csv
//	YMR_SCHEDULE_ENABLED=true
//	YMR_PIPELINE_LOCATION_CODES=924:Pantograph,925:Wipers
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := cfg.ResolvePaths()
package config
