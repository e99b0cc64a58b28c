// poppy is a terminal tap-reaction game: pop the lit slots before the
// clock runs out, or repeat the pattern in Copy mode.
//
// Usage:
//
//	poppy list              - List available modes
//	poppy play <mode>       - Play a mode
//	poppy daily             - Play today's Daily Challenge
//	poppy menu              - Start menu to pick modes interactively
//	poppy scores <mode>     - Show high scores for a mode
//	poppy serve             - Start SSH and HTTP servers for remote play
//
// Global flags:
//
//	--db <path>          - Database path (default: ~/.poppy/scores.db, env POPPY_DB)
//	--config <path>      - Modes YAML (env POPPY_CONFIG)
//	--difficulty <name>  - easy, normal, hard or fixed
//	--seed <value>       - RNG seed for reproducible boards
//	--sound              - Play cue tones on the local speaker
//	--player <name>      - Name for the leaderboard (default: $USER)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/poppy/internal/audio"
	"github.com/vovakirdan/poppy/internal/config"
	_ "github.com/vovakirdan/poppy/internal/engine" // registers the modes
	"github.com/vovakirdan/poppy/internal/platform/tui"
	"github.com/vovakirdan/poppy/internal/storage"
)

const defaultDBPath = "~/.poppy/scores.db"

var (
	// Global flags
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagSeed       int64
	flagSound      bool
	flagLogLevel   string
	flagLogFile    string
	flagPlayer     string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "poppy",
	Short: "Poppy - pop the lit slots in your terminal",
	Long: `Poppy is a tap-reaction game for the terminal.

Available commands:
  list     - Show all available modes
  play     - Play a specific mode directly
  daily    - Play today's Daily Challenge
  menu     - Interactive mode picker
  scores   - View high scores
  serve    - Start SSH and HTTP servers

Examples:
  poppy list
  poppy play classic
  poppy play copy --difficulty hard
  poppy menu --sound
  poppy serve --ssh :23235 --http :8080`,
	SilenceUsage:      true,
	PersistentPreRunE: loadEnv,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", defaultDBPath, "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom modes YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().BoolVar(&flagSound, "sound", false, "Play cue tones on the local speaker")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Player name for the leaderboard (default: $USER)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadEnv reads .env and lets POPPY_DB and POPPY_CONFIG stand in for
// flags the user did not set.
func loadEnv(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	flags := cmd.Flags()
	if v := os.Getenv("POPPY_DB"); v != "" && !flags.Changed("db") {
		flagDBPath = v
	}
	if v := os.Getenv("POPPY_CONFIG"); v != "" && !flags.Changed("config") {
		flagConfig = v
	}
	if flagPlayer == "" {
		flagPlayer = os.Getenv("USER")
	}
	if flagPlayer == "" {
		flagPlayer = "player"
	}
	return nil
}

// newLogger builds the logger for a command. fallback is used when no
// --log-file is given; TUI commands pass io.Discard so logs never land on
// the game screen.
func newLogger(fallback io.Writer) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	w, closeFn := fallback, func() {}
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w, closeFn = f, func() { f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "poppy",
		Level:           level,
	})
	return logger, closeFn, nil
}

// app is the state shared by the playing commands.
type app struct {
	launcher *tui.Launcher
	store    *storage.Store
	player   *audio.Player
	logger   *log.Logger
	closeLog func()
}

// newApp loads config, opens the store and wires the launcher.
// A store that cannot be opened is logged and play continues without it.
func newApp(logOut io.Writer, sound bool) (*app, error) {
	logger, closeLog, err := newLogger(logOut)
	if err != nil {
		return nil, err
	}

	modes, err := config.Load(flagConfig)
	if err != nil {
		closeLog()
		return nil, err
	}

	var preset config.DifficultyPreset
	if flagDifficulty != "" {
		if preset, err = config.ParsePreset(flagDifficulty); err != nil {
			closeLog()
			return nil, err
		}
	}

	a := &app{logger: logger, closeLog: closeLog}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "err", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
	} else {
		a.store = store
	}

	a.launcher = &tui.Launcher{
		Modes:  modes,
		Store:  a.store,
		Logger: logger,
		Preset: preset,
		Seed:   flagSeed,
	}

	if sound {
		p := audio.NewPlayer(0.6)
		if err := p.Open(); err != nil {
			// Non-fatal, the game runs without sound
			logger.Warn("audio initialization failed", "err", err)
		} else {
			a.player = p
			a.launcher.Sound = p
		}
	}

	return a, nil
}

func (a *app) Close() {
	if a.player != nil {
		a.player.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
	a.closeLog()
}
