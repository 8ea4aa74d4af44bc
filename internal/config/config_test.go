package config

import (
	"os"
	"testing"
)

// unsetenv removes key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CRM_SESSION_SECRET", "secret")
	unsetenv(t, "CRM_DB_DSN")
	unsetenv(t, "CRM_STAFF")
	unsetenv(t, "CRM_SERVER_PORT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if len(cfg.Staff) != 2 || cfg.Staff[0] != "Amit" || cfg.Staff[1] != "Prateek" {
		t.Errorf("Staff = %v", cfg.Staff)
	}
	if cfg.Configured() {
		t.Error("empty DSN must not be configured")
	}
}

func TestLoadStaffOverride(t *testing.T) {
	t.Setenv("CRM_SESSION_SECRET", "secret")
	t.Setenv("CRM_STAFF", " Asha , ,Ravi")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Staff) != 2 || cfg.Staff[0] != "Asha" || cfg.Staff[1] != "Ravi" {
		t.Errorf("Staff = %v", cfg.Staff)
	}
}

func TestLoadRequiresSessionSecret(t *testing.T) {
	unsetenv(t, "CRM_SESSION_SECRET")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without CRM_SESSION_SECRET")
	}
}

func TestDialectDetection(t *testing.T) {
	tests := []struct {
		dsn      string
		postgres bool
		sqlite   string
	}{
		{"postgres://u:p@localhost:5432/crm", true, ""},
		{"postgresql://u@db/crm?sslmode=disable", true, ""},
		{"host=localhost user=crm dbname=crm sslmode=disable", true, ""},
		{"sqlite://./crm.db", false, "./crm.db"},
		{"crm.db", false, "crm.db"},
	}
	for _, tt := range tests {
		cfg := &Config{DBDSN: tt.dsn}
		if got := cfg.IsPostgres(); got != tt.postgres {
			t.Errorf("IsPostgres(%q) = %v, want %v", tt.dsn, got, tt.postgres)
		}
		if !tt.postgres && cfg.SQLitePath() != tt.sqlite {
			t.Errorf("SQLitePath(%q) = %q, want %q", tt.dsn, cfg.SQLitePath(), tt.sqlite)
		}
	}
}
