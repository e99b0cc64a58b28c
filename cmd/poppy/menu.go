package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/poppy/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start Poppy with a mode picker menu",
	Long: `Start Poppy in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a mode.
After a round you can press Esc to return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select mode
  Tab          - High scores
  Q            - Quit

Examples:
  poppy menu
  poppy menu --sound
  poppy menu --db ./scores.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	a, err := newApp(io.Discard, flagSound)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := menuLoop(a); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// menuLoop alternates between the menu, the scoreboard and play until the
// player quits.
func menuLoop(a *app) error {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	for {
		result, err := tui.RunMenu(a.launcher, width, height)
		if err != nil {
			return err
		}
		width, height = result.Width, result.Height

		if result.Quit {
			return nil
		}

		if result.WantsScoreboard {
			if a.store == nil {
				// Nothing to show without a database
				continue
			}
			goBack, err := tui.RunScoreboard(a.store, a.launcher.Modes, width, height)
			if err != nil {
				return err
			}
			if goBack {
				continue
			}
			return nil
		}

		if result.ModeID == "" {
			return nil
		}

		backToMenu, err := playOnce(a.launcher, result.ModeID)
		if err != nil {
			a.logger.Error("cannot play mode", "mode", result.ModeID, "err", err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		if !backToMenu {
			return nil
		}
	}
}
