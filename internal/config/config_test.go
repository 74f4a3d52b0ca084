package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTP.Port != 8080 {
		t.Errorf("http.port = %d", cfg.HTTP.Port)
	}
	if cfg.Database.Driver != DriverMemory {
		t.Errorf("database.driver = %q", cfg.Database.Driver)
	}
	if cfg.Database.KeyPrefix != "homesearch:" {
		t.Errorf("database.key_prefix = %q", cfg.Database.KeyPrefix)
	}
	if cfg.Search.Timeout() != 30*time.Second || cfg.Search.PoolSize != 32 {
		t.Errorf("search = %+v", cfg.Search)
	}
	if cfg.Cache.TTL() != 5*time.Minute || cfg.Cache.MaxEntries != 50 || cfg.Cache.MaxCacheable != 100 {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.History.MaxPerUser != 20 || cfg.History.DedupWindow() != 5*time.Minute {
		t.Errorf("history = %+v", cfg.History)
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("HS_TEST_ADDR", "valkey:6379")
	t.Setenv("HS_TEST_TOKEN", "s3cret")

	data := []byte(`
database:
  driver: ${HS_TEST_DRIVER:-valkey}
  addrs: ["${HS_TEST_ADDR}"]
auth:
  tokens:
    ${HS_TEST_TOKEN}:
      id: alice
      display_name: Alice
cache:
  ttl_sec: ${HS_TEST_TTL:-60}
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Driver != DriverValkey {
		t.Errorf("driver = %q", cfg.Database.Driver)
	}
	if len(cfg.Database.Addrs) != 1 || cfg.Database.Addrs[0] != "valkey:6379" {
		t.Errorf("addrs = %v", cfg.Database.Addrs)
	}
	if u := cfg.Auth.Tokens["s3cret"]; u.ID != "alice" || u.DisplayName != "Alice" {
		t.Errorf("tokens = %+v", cfg.Auth.Tokens)
	}
	if cfg.Cache.TTL() != time.Minute {
		t.Errorf("ttl = %v", cfg.Cache.TTL())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		msg  string
	}{
		{"bad port", Config{HTTP: HTTPConfig{Port: 70000}}, "http.port"},
		{"unknown driver", Config{Database: DatabaseConfig{Driver: "mongo"}}, "database.driver"},
		{"redis without addrs", Config{Database: DatabaseConfig{Driver: DriverRedis}}, "database.addrs"},
		{"max results", Config{Search: SearchConfig{DefaultMaxResults: 5000}}, "default_max_results"},
		{"token without user", Config{Auth: AuthConfig{Tokens: map[string]UserConfig{"abcdefgh": {}}}}, "abcd****"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.ApplyDefaults()
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error = %q, want substring %q", err, tt.msg)
			}
		})
	}
}

func TestValidate_DriversWithoutAddrs(t *testing.T) {
	for _, d := range []string{DriverMemory, DriverSQLite} {
		cfg := Config{Database: DatabaseConfig{Driver: d}}
		cfg.ApplyDefaults()
		if err := cfg.Validate(); err != nil {
			t.Errorf("%s: unexpected error: %v", d, err)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte("http:\n  port: 9090\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d", cfg.HTTP.Port)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_Local(t *testing.T) {
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("Load(local): %v", err)
	}
	if cfg.Database.Driver == "" || len(cfg.Auth.Tokens) == 0 {
		t.Errorf("unexpected local config: %+v", cfg)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if GetEnv() != "local" {
		t.Errorf("GetEnv() = %q", GetEnv())
	}
	t.Setenv("ENV", "prod")
	if GetEnv() != "prod" {
		t.Errorf("GetEnv() = %q", GetEnv())
	}
}

func TestAuthUsers(t *testing.T) {
	a := AuthConfig{Tokens: map[string]UserConfig{"t1": {ID: "alice", DisplayName: "Alice"}}}
	users := a.Users()
	if len(users) != 1 || users["t1"].ID != "alice" || users["t1"].DisplayName != "Alice" {
		t.Errorf("Users() = %+v", users)
	}
	if got := (DatabaseConfig{ReadinessTimeout: 3}).Readiness(); got != 3*time.Second {
		t.Errorf("Readiness() = %v", got)
	}
}
