package compression

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig indicates invalid compression configuration.
var ErrInvalidConfig = errors.New("invalid compression configuration")

// DefaultRetainRecent is the number of most recent non-user messages kept
// by a compression pass.
const DefaultRetainRecent = 5

// Config holds compression policy configuration.
type Config struct {
	// RetainRecent is how many of the most recent non-user messages survive
	// a compression pass. User messages are always retained regardless.
	// Default: 5
	RetainRecent int
}

// DefaultConfig returns a Config with the package defaults.
func DefaultConfig() Config {
	return Config{RetainRecent: DefaultRetainRecent}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	if c.RetainRecent == 0 {
		c.RetainRecent = DefaultRetainRecent
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.RetainRecent < 0 {
		return fmt.Errorf("%w: retain_recent must be non-negative, got %d", ErrInvalidConfig, c.RetainRecent)
	}
	return nil
}
