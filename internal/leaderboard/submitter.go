// Package leaderboard keeps each player's best score per mode and round
// length and serves the standings over HTTP.
package leaderboard

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/poppy/internal/core"
)

// Store is the part of storage.Store the leaderboard writes to.
type Store interface {
	SubmitBest(mode string, duration int, player string, score int) (bool, error)
}

// Submitter is the leaderboard collaborator for one mode and player.
type Submitter struct {
	Store  Store
	Mode   string
	Player string
	Logger *log.Logger
}

// RegisterCandidateScore implements core.ScoreReporter.
func (s *Submitter) RegisterCandidateScore(score int, durationKey int) {
	if score <= 0 || s.Player == "" {
		return
	}
	logger := s.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	improved, err := s.Store.SubmitBest(s.Mode, durationKey, s.Player, score)
	if err != nil {
		logger.Error("cannot submit best", "mode", s.Mode, "player", s.Player, "err", err)
		return
	}
	if improved {
		logger.Info("new personal best", "mode", s.Mode, "duration", durationKey, "player", s.Player, "score", score)
	}
}

var _ core.ScoreReporter = (*Submitter)(nil)
