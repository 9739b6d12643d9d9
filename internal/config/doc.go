// Package config loads server settings with viper from defaults, an optional
// config file, a .env file and CARE_-prefixed environment variables, then
// validates them with struct tags before any component starts.
package config
