// Package config provides configuration loading and validation for
// modelgraph applications.
//
// It uses Viper to load configuration from files and environment
// variables, with optional .env loading via godotenv. Environment
// variables override file values using underscore-separated paths
// (e.g., SERVER_PORT overrides server.port).
package config
