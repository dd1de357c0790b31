// Package config provides layered configuration loading for ssekit
// services: a YAML config file as the base, environment variables and an
// optional .env file as overrides, unmarshaled through viper.
//
// ServiceConfig carries the fields every service needs (name, environment,
// logging); SSEConfig carries the hub and endpoint settings. Services embed
// ServiceConfig in their own config struct and call LoadConfig.
package config
