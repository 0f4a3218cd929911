package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const gitConfigPrefix = "lazystage."

// gitConfigMock allows tests to mock git config output.
var gitConfigMock func(args []string, repoPath string) (string, error)

// runGitConfig executes git config command and returns raw output.
func runGitConfig(args []string, repoPath string) (string, error) {
	if gitConfigMock != nil {
		return gitConfigMock(args, repoPath)
	}

	cmd := exec.Command("git", args...)
	if repoPath != "" {
		cmd.Dir = repoPath
	}

	output, err := cmd.Output()
	if err != nil {
		// git config returns exit code 1 when key not found (not an error)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", err
	}
	return string(output), nil
}

// parseGitConfigOutput parses git config output into multi-value map.
// Input format: "lazystage.theme nord\nlazystage.keys.stage a\n"
func parseGitConfigOutput(output string) map[string][]string {
	configMap := make(map[string][]string)

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, " ", 2)
		if len(parts) != 2 {
			// a key without value is a boolean set to true
			parts = append(parts, "true")
		}

		key := normalizeKey(strings.TrimPrefix(parts[0], gitConfigPrefix))
		configMap[key] = append(configMap[key], parts[1])
	}

	return configMap
}

// normalizeKey maps git's variable names (no underscores allowed) to the
// YAML spelling: "confirm-discard" and "confirm_discard" are the same key.
func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(key), "-", "_")
}

// convertGitConfigToParseConfig converts to format expected by parseConfig().
func convertGitConfigToParseConfig(gitCfg map[string][]string) map[string]any {
	result := make(map[string]any)

	for key, values := range gitCfg {
		if len(values) == 0 {
			continue
		}

		// Multi-value keys become arrays (e.g., keys.stage)
		if len(values) > 1 {
			anySlice := make([]any, len(values))
			for i, v := range values {
				anySlice[i] = v
			}
			result[key] = anySlice
			continue
		}

		// coerceBool/coerceInt handle conversion of single values
		result[key] = values[0]
	}

	return result
}

// loadGitConfig reads git config values and returns map for parseConfig.
func loadGitConfig(globalOnly bool, repoPath string) (map[string]any, error) {
	args := []string{"config"}
	if globalOnly {
		args = append(args, "--global")
	} else {
		args = append(args, "--local")
	}
	args = append(args, "--get-regexp", `^lazystage\.`)

	output, err := runGitConfig(args, repoPath)
	if err != nil {
		// git itself is reported missing when the repository is opened
		if errors.Is(err, exec.ErrNotFound) {
			return map[string]any{}, nil
		}
		return nil, err
	}

	return convertGitConfigToParseConfig(parseGitConfigOutput(output)), nil
}

// isInGitRepo checks if path is in a git repository.
func isInGitRepo(path string) bool {
	if path == "" {
		return false
	}
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = path
	return cmd.Run() == nil
}

// determineRepoPath returns repo path for local git config lookup.
func determineRepoPath(repoPath string) string {
	if repoPath != "" && isInGitRepo(repoPath) {
		return repoPath
	}

	if wd, err := os.Getwd(); err == nil && isInGitRepo(wd) {
		return wd
	}

	return ""
}

// parseCLIConfigOverrides parses --config=lazystage.key=value format.
// Returns a map suitable for parseConfig().
func parseCLIConfigOverrides(overrides []string) (map[string]any, error) {
	result := make(map[string]any)

	for _, override := range overrides {
		fullKey, value, ok := strings.Cut(override, "=")
		if !ok {
			return nil, fmt.Errorf("invalid config override: %q, expected format: lazystage.key=value (note: use = not space)", override)
		}

		key, ok := strings.CutPrefix(fullKey, gitConfigPrefix)
		if !ok {
			return nil, fmt.Errorf("config override key must start with %q: %q", gitConfigPrefix, fullKey)
		}
		if key == "" {
			return nil, fmt.Errorf("empty config key in override: %q", override)
		}
		key = normalizeKey(key)

		// A repeated key becomes a list
		switch prev := result[key].(type) {
		case nil:
			result[key] = value
		case string:
			result[key] = []any{prev, value}
		case []any:
			result[key] = append(prev, value)
		}
	}

	return result, nil
}

// ApplyCLIOverrides applies lazystage.key=value pairs on top of cfg.
func ApplyCLIOverrides(cfg *AppConfig, overrides []string) error {
	if len(overrides) == 0 {
		return nil
	}
	parsed, err := parseCLIConfigOverrides(overrides)
	if err != nil {
		return err
	}
	*cfg = *parseConfig(mergeLayers(cfg.asMap(), parsed))
	return nil
}

// asMap renders cfg in the shape parseConfig reads.
func (cfg *AppConfig) asMap() map[string]any {
	data := map[string]any{
		"theme":                 cfg.Theme,
		"debug_log":             cfg.DebugLog,
		"debug_log_max_size_mb": cfg.DebugLogMaxSizeMB,
		"debug_log_max_backups": cfg.DebugLogMaxBackups,
		"show_icons":            cfg.ShowIcons,
		"confirm_discard":       cfg.ConfirmDiscard,
		"auto_refresh":          cfg.AutoRefresh,
	}
	for action, keys := range cfg.Keys {
		list := make([]any, len(keys))
		for i, k := range keys {
			list[i] = k
		}
		data[keysPrefix+action] = list
	}
	return data
}
