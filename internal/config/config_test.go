package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/cache"
	"github.com/Mohammedazif/keystone-map3d-sub002/pkg/massing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keystone.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Address() != "0.0.0.0:8080" {
		t.Errorf("address = %s", cfg.Server.Address())
	}
	if cfg.Cache.Backend != CacheFile {
		t.Errorf("backend = %s", cfg.Cache.Backend)
	}
	if cfg.Policy != massing.DefaultPolicy() {
		t.Errorf("policy = %+v", cfg.Policy)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[server]
port = "9090"

[cache]
backend = "none"
ttl = "1h"

[log]
level = "debug"

[policy]
corner_clearance = 2.5
max_anchors = 8
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Address() != "0.0.0.0:9090" {
		t.Errorf("address = %s", cfg.Server.Address())
	}
	if cfg.Cache.Backend != CacheNone || cfg.Log.Level != "debug" {
		t.Errorf("cache/log = %+v %+v", cfg.Cache, cfg.Log)
	}
	if cfg.Policy.CornerClearance != 2.5 || cfg.Policy.MaxAnchors != 8 {
		t.Errorf("policy = %+v", cfg.Policy)
	}
	if cfg.Policy.WingRetention != massing.DefaultPolicy().WingRetention {
		t.Errorf("unset policy field lost its default: %v", cfg.Policy.WingRetention)
	}
	ttl, err := cfg.Cache.Expiry()
	if err != nil || ttl != time.Hour {
		t.Errorf("Expiry = %v, %v", ttl, err)
	}
}

func TestLoadUnknownKey(t *testing.T) {
	path := writeConfig(t, "[server]\nhots = \"x\"\n")
	if _, err := Load(path); err == nil {
		t.Error("expected an error for an unknown key")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("KEYSTONE_HTTP_HOST", "127.0.0.1")
	t.Setenv("KEYSTONE_HTTP_PORT", "7000")
	t.Setenv("KEYSTONE_CACHE", "none")
	t.Setenv("KEYSTONE_LOG_LEVEL", "warn")

	path := writeConfig(t, "[server]\nport = \"9090\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Address() != "127.0.0.1:7000" {
		t.Errorf("address = %s", cfg.Server.Address())
	}
	if cfg.Cache.Backend != CacheNone || cfg.Log.Level != "warn" {
		t.Errorf("overrides not applied: %+v %+v", cfg.Cache, cfg.Log)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Cache.Backend = "memcached"
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for an unknown backend")
	}

	cfg = Default()
	cfg.Cache.TTL = "soon"
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for a bad ttl")
	}

	cfg = Default()
	cfg.Policy.WingRetention = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for a share above 1")
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	c, err := CacheConfig{Backend: CacheNone}.Open(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("none backend = %T", c)
	}

	dir := filepath.Join(t.TempDir(), "results")
	c, err = CacheConfig{Backend: CacheFile, Dir: dir}.Open(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if _, ok := c.(*cache.FileCache); !ok {
		t.Errorf("file backend = %T", c)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache dir not created: %v", err)
	}
}
