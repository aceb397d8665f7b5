// Package config loads settings from an optional .env file, an optional
// codegen.yaml file and CODEGEN_* environment variables, applies defaults
// and validates the result.
package config
