package config

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-idle/internal/bignum"
)

//go:embed defaults/*.yaml
var defaultsFS embed.FS

// Builtin returns the IDs of the embedded rulesets, sorted.
func Builtin() []string {
	entries, err := fs.ReadDir(defaultsFS, "defaults")
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if name := e.Name(); strings.HasSuffix(name, ".yaml") {
			ids = append(ids, strings.TrimSuffix(name, ".yaml"))
		}
	}
	sort.Strings(ids)
	return ids
}

// Embedded returns the validated embedded ruleset for id.
func Embedded(id string) (GameConfig, error) {
	data, err := defaultsFS.ReadFile(path.Join("defaults", id+".yaml"))
	if err != nil {
		return GameConfig{}, fmt.Errorf("config: no built-in ruleset %q", id)
	}
	var cfg GameConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return GameConfig{}, fmt.Errorf("config: failed to parse built-in ruleset %q: %w", id, err)
	}
	if cfg.ID == "" {
		cfg.ID = id
	}
	return finish(cfg)
}

// MustEmbedded is Embedded for rulesets that ship with the binary.
// A broken embedded file is a build defect, so it panics.
func MustEmbedded(id string) GameConfig {
	cfg, err := Embedded(id)
	if err != nil {
		panic(err)
	}
	return cfg
}

// DefaultGameConfig returns a small hardcoded two-track ruleset.
func DefaultGameConfig() GameConfig {
	cfg := GameConfig{
		ID:            "sandbox",
		Title:         "Sandbox",
		Description:   "Two tracks on the default breakthrough table.",
		Currency:      "coins",
		StartCurrency: bignum.FromInt(10),
		Tracks: []TrackConfig{
			{ID: "worker", Name: "Worker", Base: 10, Scale: 1.07, Output: 1},
			{ID: "factory", Name: "Factory", Base: 500, Scale: 1.15, Output: 20},
		},
		Format:  FormatConfig{Notation: "standard", Precision: 2},
		Offline: OfflineConfig{Enabled: true, MaxHours: 8, Efficiency: 0.5},
	}
	cfg.applyDefaults()
	return cfg
}
