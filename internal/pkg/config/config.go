package config

import (
	"io"
	"time"
)

// TimeConfig reads integer values and scales them to a duration unit.
type TimeConfig interface {
	GetSecond(key string) time.Duration
	GetMinute(key string) time.Duration
	GetHour(key string) time.Duration
	GetDay(key string) time.Duration
}

// NumberConfig reads numeric values. Missing or malformed keys yield zero.
type NumberConfig interface {
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetUint(key string) uint
	GetUint32(key string) uint32
	GetFloat64(key string) float64
}

// Config defines the read-only view of runtime configuration used by the application.
//
// Implementations must be safe for concurrent use because values may be reloaded
// while requests are being served.
type Config interface {
	io.Closer
	TimeConfig
	NumberConfig

	// GetBool returns the value for key as a bool.
	GetBool(key string) bool

	// GetString returns the value for key as a string.
	GetString(key string) string

	// GetBinary returns the value for key decoded from base64.
	GetBinary(key string) []byte

	// GetArray returns the value for key stored as <element1>,<element2>,...
	// Elements are trimmed and empty elements are dropped.
	GetArray(key string) []string

	// GetMap returns the value for key stored as <key1>:<value1>,<key2>:<value2>,...
	GetMap(key string) map[string]string
}
