package config

import (
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name: "valid defaults",
			config: Config{
				DBPath:         "./ledger.db",
				BackupDir:      "backup",
				CurrencySymbol: "₹",
				LogLevel:       "info",
			},
			wantErr: false,
		},
		{
			name: "empty database path",
			config: Config{
				DBPath:         "",
				BackupDir:      "backup",
				CurrencySymbol: "₹",
				LogLevel:       "info",
			},
			wantErr:     true,
			errorString: "database path cannot be empty",
		},
		{
			name: "empty backup dir",
			config: Config{
				DBPath:         "./ledger.db",
				BackupDir:      "",
				CurrencySymbol: "₹",
				LogLevel:       "info",
			},
			wantErr:     true,
			errorString: "backup directory cannot be empty",
		},
		{
			name: "empty currency symbol",
			config: Config{
				DBPath:         "./ledger.db",
				BackupDir:      "backup",
				CurrencySymbol: "",
				LogLevel:       "info",
			},
			wantErr:     true,
			errorString: "currency symbol cannot be empty",
		},
		{
			name: "invalid log level",
			config: Config{
				DBPath:         "./ledger.db",
				BackupDir:      "backup",
				CurrencySymbol: "₹",
				LogLevel:       "loud",
			},
			wantErr:     true,
			errorString: "invalid log level 'loud'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errorString)
				}
				if !strings.Contains(err.Error(), tt.errorString) {
					t.Fatalf("expected error containing %q, got %q", tt.errorString, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestConfig_ValidateCreatesDBDir(t *testing.T) {
	cfg := Config{
		DBPath:         filepath.Join(t.TempDir(), "nested", "ledger.db"),
		BackupDir:      "backup",
		CurrencySymbol: "₹",
		LogLevel:       "info",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"loud", 0, false},
	}
	for _, tc := range cases {
		got, err := (&Config{LogLevel: tc.in}).SlogLevel()
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("%q: expected %v, got %v (err=%v)", tc.in, tc.want, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LEDGER_DB_PATH", "")
	t.Setenv("LEDGER_BACKUP_DIR", "")
	t.Setenv("LEDGER_CURRENCY", "")

	cfg := Load()
	if cfg.DBPath != "./data/finledger.db" {
		t.Fatalf("unexpected default db path %q", cfg.DBPath)
	}
	if cfg.BackupDir != "backup" {
		t.Fatalf("unexpected default backup dir %q", cfg.BackupDir)
	}
	if cfg.CurrencySymbol != "₹" {
		t.Fatalf("unexpected default currency %q", cfg.CurrencySymbol)
	}
}
