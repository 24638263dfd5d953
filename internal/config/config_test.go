package config

import (
	"os"
	"testing"
	"time"
)

func TestSnapThreshold_Default(t *testing.T) {
	os.Unsetenv(EnvSnapThreshold)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SnapThreshold() != DefaultSnapThreshold {
		t.Errorf("default SnapThreshold = %g, want %g", cfg.SnapThreshold(), DefaultSnapThreshold)
	}
}

func TestSnapThreshold_FromEnv(t *testing.T) {
	os.Setenv(EnvSnapThreshold, "1.25")
	defer os.Unsetenv(EnvSnapThreshold)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SnapThreshold() != 1.25 {
		t.Errorf("SnapThreshold = %g, want 1.25", cfg.SnapThreshold())
	}
}

func TestSnapThreshold_Invalid(t *testing.T) {
	os.Setenv(EnvSnapThreshold, "not-a-number")
	defer os.Unsetenv(EnvSnapThreshold)

	if _, err := New(); err == nil {
		t.Error("New() should reject a non-numeric snap threshold")
	}
}

func TestMaxLayers_FromEnv(t *testing.T) {
	os.Setenv(EnvMaxLayers, "5")
	defer os.Unsetenv(EnvMaxLayers)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxLayers() != 5 {
		t.Errorf("MaxLayers = %d, want 5", cfg.MaxLayers())
	}
}

func TestMaxLayers_RejectsZero(t *testing.T) {
	os.Setenv(EnvMaxLayers, "0")
	defer os.Unsetenv(EnvMaxLayers)

	if _, err := New(); err == nil {
		t.Error("New() should reject a zero layer cap")
	}
}

func TestSyncTick_FromEnv(t *testing.T) {
	os.Setenv(EnvSyncTickMs, "250")
	defer os.Unsetenv(EnvSyncTickMs)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SyncTick() != 250*time.Millisecond {
		t.Errorf("SyncTick = %v, want 250ms", cfg.SyncTick())
	}
}

func TestPort_Invalid(t *testing.T) {
	os.Setenv(EnvPort, "70000")
	defer os.Unsetenv(EnvPort)

	if _, err := New(); err == nil {
		t.Error("New() should reject an out-of-range port")
	}
}
