package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "prod" {
		t.Fatalf("expected App.Env to be prod, got %q", cfg.App.Env)
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected Redis URL: %q", cfg.Redis.URL)
	}
	if cfg.Catalog.Source != CatalogSourceMock {
		t.Fatalf("expected mock catalog by default, got %q", cfg.Catalog.Source)
	}
	if got := cfg.Cart.SessionIdleTTL; got != 30*time.Minute {
		t.Fatalf("expected 30m session idle ttl, got %v", got)
	}
	if cfg.Cart.DeviceCookieName != "fp_device" {
		t.Fatalf("unexpected cookie name %q", cfg.Cart.DeviceCookieName)
	}
	if cfg.Cart.UsesSQLCart() {
		t.Fatal("expected firestore remote cart store by default")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_JWTProviderRequiresSecret(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvAuthProvider, AuthProviderJWT)
	if _, err := Load(); err == nil {
		t.Fatal("expected error without jwt secret")
	}

	t.Setenv(EnvJWTSecret, "secret")
	if _, err := Load(); err != nil {
		t.Fatalf("unexpected error with secret: %v", err)
	}
}

func TestLoad_SQLCartRequiresDatabase(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCartRemoteStore, CartRemoteSQL)
	if _, err := Load(); err == nil {
		t.Fatal("expected error without dsn")
	}

	t.Setenv(EnvUseSQLite, "true")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error with sqlite flag: %v", err)
	}
	if !cfg.Cart.UsesSQLCart() {
		t.Fatal("expected sql cart store")
	}
}

func TestLoad_RejectsUnknownCatalogSource(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCatalogSource, "steam")
	if _, err := Load(); err == nil {
		t.Fatal("expected unsupported catalog source error")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvAppEnv, "prod")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	t.Setenv(EnvGCPProjectID, "fireplay-test")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}
