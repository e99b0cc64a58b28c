package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/poppy/internal/config"
	"github.com/vovakirdan/poppy/internal/platform/tui"
	"github.com/vovakirdan/poppy/internal/registry"
)

var flagDuration int

var playCmd = &cobra.Command{
	Use:   "play <mode>",
	Short: "Play a mode",
	Long: `Start playing the specified mode.

Controls:
  1-9, 0     - Tap a slot
  Space      - Start / confirm a clear board / dismiss results
  D          - Cycle the round length while idle
  Esc        - Back to the menu
  Q/Ctrl+C   - Quit

Difficulty options:
  easy   - Start at lowest difficulty, more lives
  normal - Start at 30% difficulty
  hard   - Start at 70% difficulty, fewer lives
  fixed  - No progression

Examples:
  poppy play classic
  poppy play classic --duration 60
  poppy play tappy --difficulty hard
  poppy play copy --sound`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Play today's Daily Challenge",
	Long: `Play the Daily Challenge. Everyone gets the same boards today,
and the round length is fixed.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		runPlay(cmd, []string{config.ModeDaily})
	},
}

func init() {
	playCmd.Flags().IntVar(&flagDuration, "duration", 0, "Round length in seconds for timed modes")
}

func runPlay(_ *cobra.Command, args []string) {
	modeID := args[0]

	if !registry.Exists(modeID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", modeID)
		fmt.Fprintln(os.Stderr, "Run 'poppy list' to see available modes.")
		os.Exit(1)
	}

	a, err := newApp(io.Discard, flagSound)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if flagDuration > 0 {
		cfg, err := a.launcher.Modes.Mode(modeID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !cfg.Timed() || cfg.Daily || !cfg.AllowsDuration(flagDuration) {
			fmt.Fprintf(os.Stderr, "Error: %s does not offer a %ds round\n", cfg.Title, flagDuration)
			os.Exit(1)
		}
		a.launcher.SaveDuration(modeID, flagDuration)
	}

	backToMenu, err := playOnce(a.launcher, modeID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running mode: %v\n", err)
		os.Exit(1)
	}

	// Esc from a direct play drops into the menu
	if backToMenu {
		if err := menuLoop(a); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// playOnce launches modeID and runs it until the player leaves.
func playOnce(l *tui.Launcher, modeID string) (backToMenu bool, err error) {
	sess, err := l.Launch(modeID, flagPlayer)
	if err != nil {
		return false, err
	}
	return tui.Run(sess, l.SessionBest(sess), l)
}
