package bootstrap

import (
	"context"
	"fmt"
	"io"

	"github.com/chmouel/lazystage/internal/buildinfo"
	"github.com/chmouel/lazystage/internal/git"
	"github.com/chmouel/lazystage/internal/status"
	urfavecli "github.com/urfave/cli/v3"
)

func statusCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "status",
		Usage: "Print the unstaged and staged changes without starting the TUI",
		Flags: []urfavecli.Flag{
			&urfavecli.BoolFlag{
				Name:  "staged",
				Usage: "Only print staged changes",
			},
			&urfavecli.BoolFlag{
				Name:  "unstaged",
				Usage: "Only print unstaged changes",
			},
		},
		Action: runStatus,
	}
}

// runStatus prints each list with DisplayText. With a single filter the
// lines are printed bare, one entry per line.
func runStatus(ctx context.Context, cmd *urfavecli.Command) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	defer closeLog(cmd)

	svc, err := git.NewService(ctx, cmd.String("repo"))
	if err != nil {
		return err
	}
	controller, err := status.NewController(ctx, svc, svc)
	if err != nil {
		return err
	}

	var unstaged, staged []string
	for _, e := range controller.Unstaged().Items() {
		unstaged = append(unstaged, e.DisplayText())
	}
	for _, e := range controller.Staged().Items() {
		staged = append(staged, e.DisplayText())
	}

	w := stdout(cmd)
	onlyStaged, onlyUnstaged := cmd.Bool("staged"), cmd.Bool("unstaged")
	switch {
	case onlyStaged && !onlyUnstaged:
		printLines(w, staged, "")
	case onlyUnstaged && !onlyStaged:
		printLines(w, unstaged, "")
	default:
		fmt.Fprintf(w, "Unstaged (%d):\n", len(unstaged))
		printLines(w, unstaged, "  ")
		fmt.Fprintf(w, "Staged (%d):\n", len(staged))
		printLines(w, staged, "  ")
	}
	return nil
}

func printLines(w io.Writer, lines []string, indent string) {
	for _, line := range lines {
		fmt.Fprintf(w, "%s%s\n", indent, line)
	}
}

func versionCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(_ context.Context, cmd *urfavecli.Command) error {
			printVersion(stdout(cmd))
			return nil
		},
	}
}

// printVersion prints version information.
func printVersion(w io.Writer) {
	buildinfo.Enrich()
	fmt.Fprintf(w, "lazystage version %s\ncommit: %s\nbuilt at: %s\nbuilt by: %s\n",
		buildinfo.Version(), buildinfo.Commit(), buildinfo.Date(), buildinfo.BuiltBy())
}
