package config

import (
	"io"
	"time"
)

// Config is read-only access to layered configuration (defaults, file,
// environment). Missing keys yield the zero value.
type Config interface {
	io.Closer

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetUint(key string) uint
	GetFloat64(key string) float64

	// GetSecond reads an integer number of seconds.
	GetSecond(key string) time.Duration

	// GetArray splits a comma separated value, e.g. "code,secret".
	// An empty value yields an empty slice.
	GetArray(key string) []string
}
