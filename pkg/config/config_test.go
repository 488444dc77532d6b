package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFile_Valid(t *testing.T) {
	path := writeConfig(t, `{
		"mongo_host": "localhost",
		"mongo_port": 27017,
		"subreddits": ["golang", "programming"],
		"user_agent": "reddit-indexer test"
	}`)

	cfg, err := loadFile(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.MongoHost != "localhost" || cfg.MongoPort != 27017 {
		t.Errorf("mongo = %s:%d; want localhost:27017", cfg.MongoHost, cfg.MongoPort)
	}
	want := []string{"golang", "programming"}
	if !reflect.DeepEqual(cfg.Subreddits, want) {
		t.Errorf("Subreddits = %v; want %v", cfg.Subreddits, want)
	}
	// Defaults survive an absent field
	if cfg.SubmissionLimit != 300 || cfg.CommentLimit != 1000 {
		t.Errorf("limits = %d/%d; want 300/1000", cfg.SubmissionLimit, cfg.CommentLimit)
	}
	if !cfg.CompressSubreddits {
		t.Error("CompressSubreddits should default to true")
	}
	if cfg.PollInterval() != 2*time.Second {
		t.Errorf("PollInterval = %v; want 2s", cfg.PollInterval())
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := loadFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestValidate_MissingFields(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{
			name: "no subreddits",
			body: `{"mongo_host": "localhost", "mongo_port": 27017, "user_agent": "ua", "subreddits": []}`,
		},
		{
			name: "no mongo host",
			body: `{"mongo_port": 27017, "user_agent": "ua", "subreddits": ["golang"]}`,
		},
		{
			name: "bad port",
			body: `{"mongo_host": "localhost", "mongo_port": 99999, "user_agent": "ua", "subreddits": ["golang"]}`,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg, err := loadFile(writeConfig(t, c.body))
			if err != nil {
				t.Fatalf("loadFile: %v", err)
			}
			if err := validate.Struct(cfg); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestApplyEnv_CredentialOverride(t *testing.T) {
	t.Setenv("REDDIT_CLIENT_ID", "env-id")
	t.Setenv("REDDIT_CLIENT_SECRET", "env-secret")

	cfg, err := loadFile(writeConfig(t, `{
		"mongo_host": "localhost",
		"mongo_port": 27017,
		"subreddits": ["golang"],
		"user_agent": "ua",
		"client_id": "file-id"
	}`))
	if err != nil {
		t.Fatalf("loadFile: %v", err)
	}
	cfg.applyEnv()

	if cfg.ClientID != "env-id" {
		t.Errorf("ClientID = %q; want env-id", cfg.ClientID)
	}
	if cfg.ClientSecret != "env-secret" {
		t.Errorf("ClientSecret = %q; want env-secret", cfg.ClientSecret)
	}
}
