package testsupport

import (
	"path/filepath"
	"testing"

	"venuebook/internal/config"
)

// TestAdminPassword is the seed administrator password in generated configs.
const TestAdminPassword = "admin-test"

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Bcrypt runs at the minimum cost to keep tests fast.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.AssetsDir = filepath.Join(base, "assets")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Seed.AdminUsername = "admin"
	cfgVal.Seed.AdminPassword = TestAdminPassword
	cfgVal.Security.BcryptCost = 4

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithOverlapPolicy sets booking.overlap_policy.
func WithOverlapPolicy(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Booking.OverlapPolicy = policy
	}
}

// WithCancelMode sets booking.cancel_mode.
func WithCancelMode(mode string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Booking.CancelMode = mode
	}
}

// WithAdmin overrides the seed administrator credentials.
func WithAdmin(username, password string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Seed.AdminUsername = username
		b.cfg.Seed.AdminPassword = password
	}
}
