package config

import (
	"errors"
	"fmt"
)

const (
	minBcryptCost = 4
	maxBcryptCost = 31
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateBooking(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.AssetsDir == "" {
		return errors.New("paths.assets_dir must be set")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.BcryptCost < minBcryptCost || c.Security.BcryptCost > maxBcryptCost {
		return fmt.Errorf("security.bcrypt_cost must be between %d and %d", minBcryptCost, maxBcryptCost)
	}
	if c.Store.BusyTimeoutMS < 0 {
		return errors.New("store.busy_timeout_ms must be non-negative")
	}
	return nil
}

func (c *Config) validateBooking() error {
	switch c.Booking.OverlapPolicy {
	case OverlapAllow, OverlapReject:
	default:
		return fmt.Errorf("booking.overlap_policy: unsupported value %q (use %q or %q)", c.Booking.OverlapPolicy, OverlapAllow, OverlapReject)
	}
	switch c.Booking.CancelMode {
	case CancelDelete, CancelStatus:
	default:
		return fmt.Errorf("booking.cancel_mode: unsupported value %q (use %q or %q)", c.Booking.CancelMode, CancelDelete, CancelStatus)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
