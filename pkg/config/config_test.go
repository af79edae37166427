package config

import (
	"slices"
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Port:           3000,
		StorageDriver:  StorageMongo,
		ResourceName:   "products",
		RequiredFields: "name;price;category",
		AuthOperations: "create;replace;update;delete",
		APIKey:         "test-api-key-0123456789",
		Environment:    EnvDevelopment,
		LogLevel:       "info",
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"a", []string{"a"}},
		{"a,b", []string{"a", "b"}},
		{"a;b", []string{"a", "b"}},
		{" a , b ;; c ", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		if got := SplitList(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("SplitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConfig_Addr(t *testing.T) {
	if got := validConfig().Addr(); got != ":3000" {
		t.Fatalf("expected :3000, got %q", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty resource", func(c *Config) { c.ResourceName = " " }, "RESOURCE_NAME"},
		{"unknown required field", func(c *Config) { c.RequiredFields = "name,colour" }, "REQUIRED_FIELDS"},
		{"no required fields", func(c *Config) { c.RequiredFields = " ; " }, "REQUIRED_FIELDS"},
		{"unknown operation", func(c *Config) { c.AuthOperations = "create,purge" }, "AUTH_OPERATIONS"},
		{"protected ops without key", func(c *Config) { c.APIKey = "" }, "API_KEY"},
		{"no protected ops without key", func(c *Config) { c.APIKey = ""; c.AuthOperations = "" }, ""},
		{"item-shaped fields", func(c *Config) { c.RequiredFields = "name,price" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateForProduction(t *testing.T) {
	t.Run("non-production is a no-op", func(t *testing.T) {
		cfg := validConfig()
		cfg.StorageDriver = StorageMemory
		cfg.LogLevel = "debug"
		if err := ValidateForProduction(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("production accepts safe settings", func(t *testing.T) {
		cfg := validConfig()
		cfg.Environment = EnvProduction
		if err := ValidateForProduction(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("production rejects unsafe settings", func(t *testing.T) {
		cfg := validConfig()
		cfg.Environment = EnvProduction
		cfg.APIKey = "short"
		cfg.StorageDriver = StorageMemory
		cfg.LogLevel = "debug"

		err := ValidateForProduction(cfg)
		if err == nil {
			t.Fatal("expected error")
		}
		for _, want := range []string{"API_KEY", "STORAGE_DRIVER", "LOG_LEVEL"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("expected %q in %v", want, err)
			}
		}
	})
}
