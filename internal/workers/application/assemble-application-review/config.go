// internal/workers/application/assemble-application-review/config.go
package assembleapplicationreview

import (
	"time"

	"housing-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

// LoadConfig reads the worker section; a missing timeout defaults to 30s.
func LoadConfig(wc config.WorkerConfig) *Config {
	timeout := 30 * time.Second
	if wc.Timeout > 0 {
		timeout = time.Duration(wc.Timeout) * time.Millisecond
	}
	return &Config{Timeout: timeout}
}
