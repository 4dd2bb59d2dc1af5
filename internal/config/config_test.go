package config

import (
	"testing"
	"time"
)

// Importing this package must not require any environment; accessors load it
// on first use.
func TestAccessorsLoadLazily(t *testing.T) {
	t.Setenv("POSTGRES_URL", "postgres://localhost/test")
	t.Setenv("SECRET", "test-secret")

	if got := Port(); got != "80" {
		t.Errorf("Port() = %q, want default 80", got)
	}
	if got := PostgresURL(); got != "postgres://localhost/test" {
		t.Errorf("PostgresURL() = %q", got)
	}
	if got := ParentTokenTTL(); got != 15*time.Minute {
		t.Errorf("ParentTokenTTL() = %v, want 15m", got)
	}
	if got := HatchThreshold(); got != 100 {
		t.Errorf("HatchThreshold() = %v, want 100", got)
	}
}
