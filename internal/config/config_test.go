package config

import (
	"testing"

	"github.com/erazemk/zbirka/internal/kv"
)

func env(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %q", cfg.Addr)
	}
	if cfg.Backend != kv.BackendSQLite {
		t.Errorf("expected sqlite backend, got %q", cfg.Backend)
	}
	if cfg.ThumbCacheSize != 256 {
		t.Errorf("expected thumbnail cache 256, got %d", cfg.ThumbCacheSize)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"ZBIRKA_ADDR":       "127.0.0.1:9000",
		"ZBIRKA_BACKEND":    "redis",
		"ZBIRKA_REDIS_ADDR": "cache:6379",
		"ZBIRKA_REDIS_DB":   "3",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	opts := cfg.KVOptions(nil)
	if opts.Backend != kv.BackendRedis || opts.RedisAddr != "cache:6379" || opts.RedisDB != 3 {
		t.Errorf("unexpected kv options: %+v", opts)
	}
	if cfg.Addr != "127.0.0.1:9000" {
		t.Errorf("expected addr override, got %q", cfg.Addr)
	}
}

func TestFromEnvInvalid(t *testing.T) {
	tests := []map[string]string{
		{"ZBIRKA_BACKEND": "etcd"},
		{"ZBIRKA_REDIS_DB": "one"},
		{"ZBIRKA_THUMB_CACHE": "0"},
	}
	for _, tt := range tests {
		if _, err := FromEnv(env(tt)); err == nil {
			t.Errorf("expected error for %v", tt)
		}
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("ZBIRKA_OWNER", "erazem")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Owner != "erazem" {
		t.Errorf("expected owner from environment, got %q", cfg.Owner)
	}
}
