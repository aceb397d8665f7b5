// Package logger configures structured JSON logging with log/slog and offers
// helpers for capturing log output in tests.
package logger
