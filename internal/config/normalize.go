package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSeed()
	c.normalizeSecurity()
	c.normalizeBooking()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.AssetsDir) == "" {
		c.Paths.AssetsDir = defaultAssetsDir
	}
	if c.Paths.AssetsDir, err = expandPath(c.Paths.AssetsDir); err != nil {
		return fmt.Errorf("paths.assets_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSeed() {
	c.Seed.AdminUsername = strings.TrimSpace(c.Seed.AdminUsername)
	if c.Seed.AdminUsername == "" {
		c.Seed.AdminUsername = defaultAdminUsername
	}
	if c.Seed.AdminPassword == "" {
		if value, ok := os.LookupEnv("VENUEBOOK_ADMIN_PASSWORD"); ok {
			c.Seed.AdminPassword = value
		}
	}
	if c.Seed.AdminPassword == "" {
		c.Seed.AdminPassword = defaultAdminPassword
	}
}

func (c *Config) normalizeSecurity() {
	if c.Security.BcryptCost == 0 {
		c.Security.BcryptCost = defaultBcryptCost
	}
	if c.Store.BusyTimeoutMS == 0 {
		c.Store.BusyTimeoutMS = defaultBusyTimeoutMS
	}
}

func (c *Config) normalizeBooking() {
	c.Booking.OverlapPolicy = strings.ToLower(strings.TrimSpace(c.Booking.OverlapPolicy))
	if c.Booking.OverlapPolicy == "" {
		c.Booking.OverlapPolicy = defaultOverlapPolicy
	}
	c.Booking.CancelMode = strings.ToLower(strings.TrimSpace(c.Booking.CancelMode))
	if c.Booking.CancelMode == "" {
		c.Booking.CancelMode = defaultCancelMode
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
