package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazystage/internal/app"
	"github.com/chmouel/lazystage/internal/buildinfo"
	"github.com/chmouel/lazystage/internal/config"
	"github.com/chmouel/lazystage/internal/git"
	"github.com/chmouel/lazystage/internal/log"
	"github.com/chmouel/lazystage/internal/theme"
	urfavecli "github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// ErrNoTerminal is returned when the TUI is started without a terminal on stdout.
var ErrNoTerminal = errors.New("lazystage needs an interactive terminal; use `lazystage status` for plain output")

// isTerminal reports whether fd is a terminal. Tests replace it.
var isTerminal = func(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// NewCommand builds the root command. Without a subcommand it runs the TUI.
func NewCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:    "lazystage",
		Usage:   "A TUI to stage, unstage and discard git changes",
		Version: buildinfo.Version(),
		Flags:   globalFlags(),

		EnableShellCompletion: true,

		Commands: []*urfavecli.Command{
			statusCommand(),
			versionCommand(),
		},
		Action: runTUI,
	}
}

// Run parses args and executes the selected command.
func Run(ctx context.Context, args []string) error {
	return NewCommand().Run(ctx, args)
}

// runTUI is the default action that launches the TUI when no subcommand is given.
func runTUI(ctx context.Context, cmd *urfavecli.Command) error {
	if cmd.Bool("show-themes") {
		printThemes(stdout(cmd))
		return nil
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer closeLog(cmd)

	svc, err := git.NewService(ctx, cmd.String("repo"))
	if err != nil {
		return err
	}
	if !isTerminal(os.Stdout.Fd()) {
		return ErrNoTerminal
	}

	model, err := app.NewModel(ctx, cfg, svc)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	_, err = p.Run()
	model.Close()
	if err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}

// loadConfig reads every configuration layer and applies the command-line
// flags on top. A broken config file is reported and the defaults are used;
// bad flags are errors.
func loadConfig(cmd *urfavecli.Command) (*config.AppConfig, error) {
	overrides := cmd.StringSlice("config")
	if err := config.ApplyCLIOverrides(config.DefaultConfig(), overrides); err != nil {
		return nil, fmt.Errorf("error applying config overrides: %w", err)
	}

	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: cmd.String("config-file"),
		RepoPath:   cmd.String("repo"),
		Overrides:  overrides,
	})
	if err != nil {
		fmt.Fprintf(stderr(cmd), "Error loading config: %v\n", err)
		cfg.Theme = theme.DetectBackground()
		if err := config.ApplyCLIOverrides(cfg, overrides); err != nil {
			return nil, err
		}
	}

	if themeName := cmd.String("theme"); themeName != "" {
		normalized := config.NormalizeThemeName(themeName)
		if normalized == "" {
			return nil, fmt.Errorf("unknown theme %q", themeName)
		}
		cfg.Theme = normalized
	}

	if debugLog := cmd.String("debug-log"); debugLog != "" {
		cfg.DebugLog = debugLog
	}
	setupDebugLog(cmd, cfg)
	return cfg, nil
}

// setupDebugLog routes buffered log lines to the configured file, or drops
// them when no file is configured.
func setupDebugLog(cmd *urfavecli.Command, cfg *config.AppConfig) {
	if cfg.DebugLog == "" {
		_ = log.SetFile("", 0, 0)
		return
	}
	path := cfg.DebugLog
	if expanded, err := config.ExpandPath(path); err == nil {
		path = expanded
	}
	cfg.DebugLog = path
	if err := log.SetFile(path, cfg.DebugLogMaxSizeMB, cfg.DebugLogMaxBackups); err != nil {
		fmt.Fprintf(stderr(cmd), "Error opening debug log file %q: %v\n", path, err)
	}
}

func closeLog(cmd *urfavecli.Command) {
	if err := log.Close(); err != nil {
		fmt.Fprintf(stderr(cmd), "Error closing debug log: %v\n", err)
	}
}

// printThemes prints the available UI themes.
func printThemes(w io.Writer) {
	fmt.Fprintln(w, "Available themes:")
	for _, name := range theme.AvailableThemes() {
		background := "dark"
		if theme.IsLight(name) {
			background = "light"
		}
		fmt.Fprintf(w, "  %-18s %s\n", name, background)
	}
}

func stdout(cmd *urfavecli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func stderr(cmd *urfavecli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}
