// Package config resolves application settings from flags, the
// environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/olympiadforge/forge/internal/logging"
	"github.com/olympiadforge/forge/internal/store"
)

// DefaultShareBaseURL prefixes share links when FORGE_SHARE_BASE_URL is unset.
const DefaultShareBaseURL = "https://olympiad-forge.local/"

// Config holds the application settings that are not provider specific.
// Provider settings live in llm.Config.
type Config struct {
	DBPath       string
	LogFile      string
	LogLevel     string
	ShareBaseURL string
	// RenderStyle is the glamour style used for terminal typesetting.
	RenderStyle string
	// RenderWidth is the word-wrap width for typeset text.
	RenderWidth int
}

// Overrides carries flag values. Empty fields fall through to the
// environment and then to defaults.
type Overrides struct {
	DBPath   string
	LogFile  string
	LogLevel string
}

// LoadEnv loads variables from the given .env files without overriding
// variables already set. Missing files are skipped; with no arguments it
// reads ".env" in the working directory.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Resolve builds a Config. The database directory is created as a side
// effect so the store can open the file.
func Resolve(o Overrides) (Config, error) {
	cfg := Config{
		LogFile:      firstNonEmpty(o.LogFile, os.Getenv("FORGE_LOG_FILE"), logging.DefaultPath()),
		LogLevel:     firstNonEmpty(o.LogLevel, os.Getenv("FORGE_LOG_LEVEL"), "info"),
		ShareBaseURL: firstNonEmpty(os.Getenv("FORGE_SHARE_BASE_URL"), DefaultShareBaseURL),
		RenderStyle:  firstNonEmpty(os.Getenv("FORGE_RENDER_STYLE"), "dark"),
		RenderWidth:  80,
	}

	if w := os.Getenv("FORGE_RENDER_WIDTH"); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid FORGE_RENDER_WIDTH %q", w)
		}
		cfg.RenderWidth = n
	}

	if o.DBPath != "" {
		if err := store.EnsureDir(o.DBPath); err != nil {
			return Config{}, fmt.Errorf("resolve DB path: %w", err)
		}
		cfg.DBPath = o.DBPath
	} else {
		p, err := store.DefaultDBPath()
		if err != nil {
			return Config{}, fmt.Errorf("resolve DB path: %w", err)
		}
		cfg.DBPath = p
	}
	return cfg, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
