package config

import "testing"

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is unset")
	}
}

// Storage settings travel through Config so the utils package never has
// to read the environment itself.
func TestLoadReadsStorageSettings(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/exams")
	t.Setenv("STORAGE_ENDPOINT", "https://storage.example.com")
	t.Setenv("STORAGE_ACCESS_KEY_ID", "key-id")
	t.Setenv("STORAGE_ACCESS_KEY_SECRET", "key-secret")
	t.Setenv("STORAGE_BUCKET_NAME", "exports")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StorageEndpoint != "https://storage.example.com" {
		t.Fatalf("unexpected endpoint: %q", cfg.StorageEndpoint)
	}
	if cfg.StorageAccessKeyID != "key-id" || cfg.StorageAccessKeySecret != "key-secret" {
		t.Fatal("storage credentials not loaded")
	}
	if cfg.StorageBucket != "exports" {
		t.Fatalf("unexpected bucket: %q", cfg.StorageBucket)
	}
}

func TestLoadStorageDisabledByDefault(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/exams")
	t.Setenv("STORAGE_ENDPOINT", "")
	t.Setenv("STORAGE_ACCESS_KEY_ID", "")
	t.Setenv("STORAGE_ACCESS_KEY_SECRET", "")
	t.Setenv("STORAGE_BUCKET_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StorageBucket != "" {
		t.Fatalf("expected empty bucket, got %q", cfg.StorageBucket)
	}
}
