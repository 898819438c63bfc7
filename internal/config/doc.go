// Package config loads and validates application configuration from
// defaults, an optional config file, and TOURS_-prefixed environment
// variables, with the environment taking precedence.
package config
