// Package config loads lazystage configuration from YAML, git config and
// command-line overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/chmouel/lazystage/internal/theme"
	"gopkg.in/yaml.v3"
)

// Actions that accept key binding overrides under keys.<action>.
const (
	KeyQuit     = "quit"
	KeyNext     = "next"
	KeyPrevious = "previous"
	KeyClear    = "clear"
	KeySwitch   = "switch"
	KeyStage    = "stage"
	KeyDiscard  = "discard"
	KeyUnstage  = "unstage"
	KeyRefresh  = "refresh"
	KeyHelp     = "help"
)

const keysPrefix = "keys."

// AppConfig defines the global lazystage configuration options.
type AppConfig struct {
	Theme              string // Theme name: see AvailableThemes in internal/theme
	DebugLog           string
	DebugLogMaxSizeMB  int
	DebugLogMaxBackups int
	ShowIcons          bool // Render Nerd Font icons next to paths (default: false)
	ConfirmDiscard     bool // Ask before discarding working tree changes (default: true)
	AutoRefresh        bool // Refresh when the index or HEAD changes on disk (default: true)
	Keys               map[string][]string
}

// LoadOptions selects the sources read by Load.
type LoadOptions struct {
	// ConfigFile overrides the default $XDG_CONFIG_HOME/lazystage/config.yaml.
	ConfigFile string
	// RepoPath is used for the local git config lookup.
	RepoPath string
	// Overrides are lazystage.key=value pairs from the command line.
	Overrides []string
}

// DefaultKeys returns the built-in key bindings.
func DefaultKeys() map[string][]string {
	return map[string][]string{
		KeyQuit:     {"q", "ctrl+c"},
		KeyNext:     {"down", "j"},
		KeyPrevious: {"up", "k"},
		KeyClear:    {"left", "esc"},
		KeySwitch:   {"t", "tab"},
		KeyStage:    {"s"},
		KeyDiscard:  {"r"},
		KeyUnstage:  {"u"},
		KeyRefresh:  {"R"},
		KeyHelp:     {"?"},
	}
}

// KeyActions returns every action accepting a binding, sorted.
func KeyActions() []string {
	actions := make([]string, 0, 10)
	for action := range DefaultKeys() {
		actions = append(actions, action)
	}
	sort.Strings(actions)
	return actions
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		DebugLogMaxSizeMB:  10,
		DebugLogMaxBackups: 3,
		ShowIcons:          false,
		ConfirmDiscard:     true,
		AutoRefresh:        true,
		Keys:               DefaultKeys(),
	}
}

// normalizeKeyList converts a string or list value to key names.
// A string may hold several comma separated keys.
func normalizeKeyList(value any) []string {
	if value == nil {
		return []string{}
	}

	keys := []string{}
	switch v := value.(type) {
	case string:
		for _, part := range strings.Split(v, ",") {
			if text := strings.TrimSpace(part); text != "" {
				keys = append(keys, text)
			}
		}
	case []any:
		for _, item := range v {
			if item == nil {
				continue
			}
			keys = append(keys, normalizeKeyList(fmt.Sprintf("%v", item))...)
		}
	}
	return keys
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		text := strings.ToLower(strings.TrimSpace(v))
		switch text {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func coerceInt(value any, defaultVal int) int {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return defaultVal
	case int:
		return v
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return defaultVal
		}
		if i, err := strconv.Atoi(text); err == nil {
			return i
		}
	}
	return defaultVal
}

// flattenKeys turns a nested YAML keys: mapping into keys.<action> entries
// so every source shares the git config shape.
func flattenKeys(data map[string]any) map[string]any {
	nested, ok := data["keys"].(map[string]any)
	if !ok {
		return data
	}
	flat := make(map[string]any, len(data)+len(nested))
	for k, v := range data {
		if k != "keys" {
			flat[k] = v
		}
	}
	for action, v := range nested {
		flat[keysPrefix+action] = v
	}
	return flat
}

// mergeLayers overlays each layer on the previous one. Later layers win per key.
func mergeLayers(layers ...map[string]any) map[string]any {
	merged := make(map[string]any)
	for _, layer := range layers {
		for k, v := range flattenKeys(layer) {
			merged[k] = v
		}
	}
	return merged
}

func parseConfig(data map[string]any) *AppConfig {
	cfg := DefaultConfig()
	data = flattenKeys(data)

	if debugLog, ok := data["debug_log"].(string); ok {
		debugLog = strings.TrimSpace(debugLog)
		if debugLog != "" {
			cfg.DebugLog = debugLog
		}
	}

	if themeName, ok := data["theme"].(string); ok {
		if normalized := NormalizeThemeName(themeName); normalized != "" {
			cfg.Theme = normalized
		}
	}

	cfg.ShowIcons = coerceBool(data["show_icons"], cfg.ShowIcons)
	cfg.ConfirmDiscard = coerceBool(data["confirm_discard"], cfg.ConfirmDiscard)
	cfg.AutoRefresh = coerceBool(data["auto_refresh"], cfg.AutoRefresh)
	cfg.DebugLogMaxSizeMB = coerceInt(data["debug_log_max_size_mb"], cfg.DebugLogMaxSizeMB)
	cfg.DebugLogMaxBackups = coerceInt(data["debug_log_max_backups"], cfg.DebugLogMaxBackups)
	if cfg.DebugLogMaxSizeMB <= 0 {
		cfg.DebugLogMaxSizeMB = DefaultConfig().DebugLogMaxSizeMB
	}
	if cfg.DebugLogMaxBackups < 0 {
		cfg.DebugLogMaxBackups = 0
	}

	for key, value := range data {
		action, ok := strings.CutPrefix(key, keysPrefix)
		if !ok {
			continue
		}
		if _, known := cfg.Keys[action]; !known {
			continue
		}
		if keys := normalizeKeyList(value); len(keys) > 0 {
			cfg.Keys[action] = keys
		}
	}

	return cfg
}

func getConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// DefaultConfigPath returns the YAML file read when no path is given.
func DefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "lazystage", "config.yaml")
}

// readYAMLConfig returns the raw values of the first existing config file.
func readYAMLConfig(configPath string) (map[string]any, error) {
	var paths []string
	if configPath != "" {
		expanded, err := ExpandPath(configPath)
		if err != nil {
			return nil, err
		}
		paths = []string{expanded}
	} else {
		base := filepath.Join(getConfigDir(), "lazystage")
		paths = []string{
			filepath.Join(base, "config.yaml"),
			filepath.Join(base, "config.yml"),
		}
	}

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if configPath != "" {
				return nil, fmt.Errorf("config file %s does not exist", path)
			}
			continue
		}

		// #nosec G304 -- path is chosen by the user or is the default config location
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		var yamlData map[string]any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if yamlData == nil {
			yamlData = map[string]any{}
		}
		return yamlData, nil
	}
	return map[string]any{}, nil
}

// Load reads every configuration layer: defaults, the YAML file, global
// then local git config, then command-line overrides. A theme left unset is
// picked from the terminal background.
func Load(opts LoadOptions) (*AppConfig, error) {
	yamlData, err := readYAMLConfig(opts.ConfigFile)
	if err != nil {
		return DefaultConfig(), err
	}

	globalGit, err := loadGitConfig(true, "")
	if err != nil {
		return DefaultConfig(), fmt.Errorf("failed to read global git config: %w", err)
	}

	localGit := map[string]any{}
	if repoPath := determineRepoPath(opts.RepoPath); repoPath != "" {
		localGit, err = loadGitConfig(false, repoPath)
		if err != nil {
			return DefaultConfig(), fmt.Errorf("failed to read local git config: %w", err)
		}
	}

	cli, err := parseCLIConfigOverrides(opts.Overrides)
	if err != nil {
		return DefaultConfig(), err
	}

	cfg := parseConfig(mergeLayers(yamlData, globalGit, localGit, cli))
	if cfg.Theme == "" {
		cfg.Theme = theme.DetectBackground()
	}
	return cfg, nil
}

// ExpandPath expands a leading ~ and environment variables.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}

// NormalizeThemeName returns the canonical theme name if it is supported.
func NormalizeThemeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if theme.Exists(name) {
		return name
	}
	return ""
}
