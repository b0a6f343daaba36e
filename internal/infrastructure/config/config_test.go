package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.StorageDriver != DriverMongo {
		t.Errorf("expected mongo driver, got %s", cfg.StorageDriver)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("expected 24h token ttl, got %v", cfg.Auth.TokenTTL)
	}
	if cfg.Mongo.Database != "dog_collars" {
		t.Errorf("unexpected mongo db %s", cfg.Mongo.Database)
	}
	if cfg.Auth.LoginBurst != 5 {
		t.Errorf("expected burst 5, got %d", cfg.Auth.LoginBurst)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":                "production",
		"JWT_SECRET":         "s3cret",
		"STORAGE_DRIVER":     "postgres",
		"POSTGRES_DSN":       "postgres://localhost/dogs",
		"TOKEN_TTL":          "2h",
		"MONGO_TRANSACTIONS": "true",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.IsDevelopment() {
		t.Error("expected production env")
	}
	if cfg.Auth.TokenTTL != 2*time.Hour {
		t.Errorf("expected 2h, got %v", cfg.Auth.TokenTTL)
	}
	if !cfg.Mongo.Transactions {
		t.Error("expected transactions enabled")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown driver", map[string]string{"STORAGE_DRIVER": "sqlite"}, "unknown STORAGE_DRIVER"},
		{"postgres without dsn", map[string]string{"STORAGE_DRIVER": "postgres"}, "POSTGRES_DSN"},
		{"production without secret", map[string]string{"ENV": "production"}, "JWT_SECRET"},
		{"half superadmin", map[string]string{"SUPERADMIN_EMAIL": "root@example.com"}, "SUPERADMIN_PASSWORD"},
	}

	for _, tc := range cases {
		_, err := load(context.Background(), envconfig.MapLookuper(tc.env))
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: expected error mentioning %q, got %v", tc.name, tc.want, err)
		}
	}
}
