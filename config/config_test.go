package config

import "testing"

func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL", "JWT_SECRET_KEY", "SERVER_PORT", "LOG_LEVEL", "CORS_ALLOWED_ORIGINS",
		"R2_ACCOUNT_ID", "S3_ENDPOINT", "S3_REGION", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY",
		"S3_BUCKET_NAME", "S3_PUBLIC_BASE_URL", "S3_USE_PATH_STYLE",
	} {
		t.Setenv(key, env[key])
	}
}

func TestLoad(t *testing.T) {
	base := map[string]string{
		"DATABASE_URL":   "postgres://localhost/fixtures",
		"JWT_SECRET_KEY": "secret",
	}

	t.Run("defaults", func(t *testing.T) {
		setEnv(t, base)
		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.ServerPort != 8080 {
			t.Errorf("expected default port 8080, got %d", cfg.ServerPort)
		}
		if cfg.Storage.Enabled() {
			t.Error("storage should be disabled without a bucket")
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Errorf("unexpected CORS origins %v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("origins list", func(t *testing.T) {
		env := map[string]string{"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example,"}
		for k, v := range base {
			env[k] = v
		}
		setEnv(t, env)
		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
			t.Errorf("unexpected CORS origins %v", cfg.CORSAllowedOrigins)
		}
	})

	tests := []struct {
		name  string
		extra map[string]string
		drop  string
	}{
		{"missing database url", nil, "DATABASE_URL"},
		{"missing jwt secret", nil, "JWT_SECRET_KEY"},
		{"port not a number", map[string]string{"SERVER_PORT": "http"}, ""},
		{"port out of range", map[string]string{"SERVER_PORT": "70000"}, ""},
		{"bucket without credentials", map[string]string{"S3_BUCKET_NAME": "snapshots", "R2_ACCOUNT_ID": "acc"}, ""},
		{"bucket without endpoint", map[string]string{"S3_BUCKET_NAME": "snapshots", "S3_ACCESS_KEY_ID": "k", "S3_SECRET_ACCESS_KEY": "s"}, ""},
		{"bad path style flag", map[string]string{"S3_USE_PATH_STYLE": "sometimes"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := make(map[string]string)
			for k, v := range base {
				env[k] = v
			}
			for k, v := range tt.extra {
				env[k] = v
			}
			delete(env, tt.drop)
			setEnv(t, env)

			if _, err := Load(); err == nil {
				t.Error("expected an error")
			}
		})
	}

	t.Run("r2 storage", func(t *testing.T) {
		env := map[string]string{
			"S3_BUCKET_NAME": "snapshots", "R2_ACCOUNT_ID": "acc",
			"S3_ACCESS_KEY_ID": "k", "S3_SECRET_ACCESS_KEY": "s", "S3_USE_PATH_STYLE": "true",
		}
		for k, v := range base {
			env[k] = v
		}
		setEnv(t, env)
		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !cfg.Storage.Enabled() || !cfg.Storage.UsePathStyle || cfg.Storage.Region != "auto" {
			t.Errorf("unexpected storage config %+v", cfg.Storage)
		}
	})
}
