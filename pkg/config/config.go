package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Config is the process configuration, loaded once at startup from a
// JSON file plus flag and environment overrides. Immutable afterwards.
type Config struct {
	MongoHost string `json:"mongo_host" validate:"required"`
	MongoPort int    `json:"mongo_port" validate:"required,min=1,max=65535"`

	// RedisURL enables the read-path response cache when set.
	RedisURL string `json:"redis_url"`

	Subreddits []string `json:"subreddits" validate:"required,min=1,dive,required"`

	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	UserAgent    string `json:"user_agent" validate:"required"`

	SubmissionLimit int `json:"submission_limit" validate:"min=1"`
	CommentLimit    int `json:"comment_limit" validate:"min=1"`

	// UpdateTime is the per-worker sleep between sweeps, in milliseconds.
	UpdateTime int `json:"update_time" validate:"min=1"`

	// NumThreads caps the worker count; 0 means one worker per subreddit.
	NumThreads int `json:"num_threads" validate:"min=0"`

	CompressSubreddits bool `json:"compress_subreddits"`
	EraseDatabase      bool `json:"erase_database"`

	// StartTime is the initial watermark for every subreddit. The
	// original runs always restarted from 0; kept configurable here.
	StartTime int64 `json:"start_time" validate:"min=0"`

	APIPort     int `json:"api_port" validate:"min=1,max=65535"`
	MetricsPort int `json:"metrics_port" validate:"min=1,max=65535"`
}

// PollInterval returns UpdateTime as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.UpdateTime) * time.Millisecond
}

// MongoURI renders the store connection string.
func (c *Config) MongoURI() string {
	return fmt.Sprintf("mongodb://%s:%d", c.MongoHost, c.MongoPort)
}

// Load reads the JSON config file, applies flag and environment
// overrides, and validates required fields. The config path itself
// comes from -config (default "config.json").
func Load() (*Config, error) {
	// Fresh FlagSet so we don't collide with `go test` flags
	fs := flag.NewFlagSet("config", flag.ContinueOnError)

	var (
		path            = fs.String("config", "config.json", "Path to the JSON config file")
		numThreads      = fs.Int("num_threads", -1, "Number of worker goroutines (0 = one per subreddit)")
		submissionLimit = fs.Int("submission_limit", -1, "Max submissions fetched per subreddit request")
		commentLimit    = fs.Int("comment_limit", -1, "Max comments fetched per subreddit request")
		updateTime      = fs.Int("update_time", -1, "Time between sweeps in milliseconds")
		eraseDatabase   = fs.Bool("erase_database", false, "Erase the database before starting")
		keepDuplicates  = fs.Bool("nocompress_subreddits", false, "Keep duplicate subreddits in the config list")
	)

	// Filter out any -test.* args before parsing
	var appArgs []string
	for _, arg := range os.Args[1:] {
		if strings.HasPrefix(arg, "-test.") {
			continue
		}
		appArgs = append(appArgs, arg)
	}
	if err := fs.Parse(appArgs); err != nil {
		return nil, err
	}

	cfg, err := loadFile(*path)
	if err != nil {
		return nil, err
	}

	// Flag overrides, matching the original CLI switches
	if *numThreads >= 0 {
		cfg.NumThreads = *numThreads
	}
	if *submissionLimit > 0 {
		cfg.SubmissionLimit = *submissionLimit
	}
	if *commentLimit > 0 {
		cfg.CommentLimit = *commentLimit
	}
	if *updateTime > 0 {
		cfg.UpdateTime = *updateTime
	}
	if *eraseDatabase {
		cfg.EraseDatabase = true
	}
	if *keepDuplicates {
		cfg.CompressSubreddits = false
	}

	cfg.applyEnv()

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadFile parses the JSON file on top of the defaults.
func loadFile(path string) (*Config, error) {
	cfg := &Config{
		SubmissionLimit:    300,
		CommentLimit:       1000,
		UpdateTime:         2000,
		CompressSubreddits: true,
		APIPort:            8080,
		MetricsPort:        8082,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnv lets credentials live outside the config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("REDDIT_CLIENT_ID"); v != "" {
		c.ClientID = v
	}
	if v := os.Getenv("REDDIT_CLIENT_SECRET"); v != "" {
		c.ClientSecret = v
	}
	if v := os.Getenv("REDDIT_USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv("MONGO_HOST"); v != "" {
		c.MongoHost = v
	}
}
