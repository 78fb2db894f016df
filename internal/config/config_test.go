package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPick_Precedence(t *testing.T) {
	t.Setenv("LAMPSTAND_TEST_KEY", "from-env")

	if got := pick("from-flag", "LAMPSTAND_TEST_KEY", "fallback"); got != "from-flag" {
		t.Errorf("flag should win, got %q", got)
	}
	if got := pick("", "LAMPSTAND_TEST_KEY", "fallback"); got != "from-env" {
		t.Errorf("env should win over fallback, got %q", got)
	}
	if got := pick("", "LAMPSTAND_MISSING_KEY", "fallback"); got != "fallback" {
		t.Errorf("fallback expected, got %q", got)
	}
}

func TestPickBool(t *testing.T) {
	t.Setenv("LAMPSTAND_TEST_BOOL", "false")

	if pickBool("", "LAMPSTAND_TEST_BOOL", true) {
		t.Error("env false should override fallback true")
	}
	if !pickBool("true", "LAMPSTAND_TEST_BOOL", false) {
		t.Error("flag true should win")
	}
	if !pickBool("garbage", "", true) {
		t.Error("unparseable value should fall back")
	}
}

func TestPickDuration(t *testing.T) {
	t.Setenv("LAMPSTAND_TEST_DUR", "45s")

	if got := pickDuration("LAMPSTAND_TEST_DUR", time.Minute); got != 45*time.Second {
		t.Errorf("got %v, want 45s", got)
	}
	if got := pickDuration("LAMPSTAND_MISSING_DUR", time.Minute); got != time.Minute {
		t.Errorf("got %v, want fallback 1m", got)
	}
}

func TestPickList(t *testing.T) {
	t.Setenv("LAMPSTAND_TEST_LIST", "http://a.local, http://b.local ,")

	got := pickList("LAMPSTAND_TEST_LIST", nil)
	if len(got) != 2 || got[0] != "http://a.local" || got[1] != "http://b.local" {
		t.Errorf("unexpected list %v", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nLAMPSTAND_DOTENV_A=alpha\nLAMPSTAND_DOTENV_B=\"beta\"\nnot a pair\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	// Pre-set value must not be overridden.
	t.Setenv("LAMPSTAND_DOTENV_A", "preset")

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv: %v", err)
	}
	if got := os.Getenv("LAMPSTAND_DOTENV_A"); got != "preset" {
		t.Errorf("existing env overridden: %q", got)
	}
	if got := os.Getenv("LAMPSTAND_DOTENV_B"); got != "beta" {
		t.Errorf("quoted value: got %q, want beta", got)
	}
	t.Cleanup(func() { os.Unsetenv("LAMPSTAND_DOTENV_B") })
}

func TestLoadDotEnv_Missing(t *testing.T) {
	if err := loadDotEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Errorf("missing .env should not error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		App:      AppConfig{Environment: "development"},
		Server:   ServerConfig{Port: "7390"},
		TagPanel: TagPanelConfig{BatchSize: 50},
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	cfg.App.Environment = "testing"
	if err := cfg.validate(); err == nil {
		t.Error("invalid environment accepted")
	}

	cfg.App.Environment = "production"
	cfg.Server.Port = "not-a-port"
	if err := cfg.validate(); err == nil {
		t.Error("invalid port accepted")
	}
}
