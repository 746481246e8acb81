// Package config assembles service configuration from env files,
// environment variables, and an optional rules.yaml overriding the
// audit thresholds.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/analyzer"
)

// Config holds all service configuration
type Config struct {
	Port       string
	GinMode    string
	DataDir    string
	ContentDir string
	DevMode    bool
	SweepTime  string // HH:MM, local to Timezone
	Timezone   string
	RateLimit  float64 // requests per second per client
	RateBurst  float64
	Rules      analyzer.Config
}

var sweepTimeRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// LoadEnv loads .env.development first (local development), falling
// back to .env.
func LoadEnv() {
	if err := godotenv.Load(".env.development"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Debug("no .env file found, using environment variables")
		}
	}
}

// Load builds the configuration: defaults, then the rules file, then
// environment overrides, then validation.
func Load() (*Config, error) {
	cfg := &Config{
		Port:       envOr("PORT", "8082"),
		GinMode:    envOr("GIN_MODE", "release"),
		DataDir:    envOr("DATA_DIR", "./data"),
		ContentDir: envOr("CONTENT_DIR", "./content/blog"),
		DevMode:    os.Getenv("DEV_MODE") == "true",
		SweepTime:  envOr("AUDIT_SWEEP_TIME", "03:30"),
		Timezone:   envOr("TIMEZONE", "Asia/Kolkata"),
		Rules:      analyzer.DefaultConfig(),
	}

	var err error
	if cfg.RateLimit, err = envFloat("RATE_LIMIT", 2); err != nil {
		return nil, err
	}
	if cfg.RateBurst, err = envFloat("RATE_BURST", 5); err != nil {
		return nil, err
	}

	if path := rulesPath(); path != "" {
		if err := LoadRules(path, &cfg.Rules); err != nil {
			return nil, err
		}
	}
	if site := os.Getenv("SITE_URL"); site != "" {
		cfg.Rules.SiteURL = site
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}

// rulesPath returns the rules file to load, if any. RULES_FILE wins;
// otherwise a rules.yaml next to the binary is picked up.
func rulesPath() string {
	if path := os.Getenv("RULES_FILE"); path != "" {
		return path
	}
	if _, err := os.Stat("rules.yaml"); err == nil {
		return "rules.yaml"
	}
	return ""
}

// LoadRules overlays thresholds from a YAML file. Keys absent from the
// file keep their current values.
func LoadRules(path string, rules *analyzer.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, rules); err != nil {
		return fmt.Errorf("parse rules yaml: %w", err)
	}
	return nil
}

func validate(cfg *Config) error {
	if !sweepTimeRegex.MatchString(cfg.SweepTime) {
		return fmt.Errorf("AUDIT_SWEEP_TIME must be in HH:MM format (00:00-23:59), got %q", cfg.SweepTime)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	if cfg.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT must be positive, got %v", cfg.RateLimit)
	}
	if cfg.RateBurst < 1 {
		return fmt.Errorf("RATE_BURST must be at least 1, got %v", cfg.RateBurst)
	}

	r := cfg.Rules
	if r.TitleMin <= 0 || r.TitleMin >= r.TitleMax {
		return fmt.Errorf("title window %d-%d is not usable", r.TitleMin, r.TitleMax)
	}
	if r.DescriptionMin <= 0 || r.DescriptionMin >= r.DescriptionMax {
		return fmt.Errorf("description window %d-%d is not usable", r.DescriptionMin, r.DescriptionMax)
	}
	if r.KeywordDensityMin <= 0 || r.KeywordDensityMin >= r.KeywordDensityMax {
		return fmt.Errorf("keyword density window %v-%v is not usable", r.KeywordDensityMin, r.KeywordDensityMax)
	}
	if r.WordCountMin <= 0 || r.WordCountMin >= r.WordCountMax {
		return fmt.Errorf("word count window %d-%d is not usable", r.WordCountMin, r.WordCountMax)
	}
	if r.MinInternalLinks < 0 {
		return fmt.Errorf("min_internal_links must not be negative, got %d", r.MinInternalLinks)
	}
	return nil
}
