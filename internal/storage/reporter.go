package storage

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/poppy/internal/core"
)

// Reporter is the score collaborator for one mode. It keeps every non-zero
// score and tells OnNewHigh when a score beats the stored best for its round
// length. Failures are logged and swallowed.
type Reporter struct {
	Store  *Store
	Mode   string
	Player string
	Logger *log.Logger

	// OnNewHigh is called when score beats the previous best. May be nil.
	OnNewHigh func(score, durationKey int)
}

// RegisterCandidateScore implements core.ScoreReporter.
func (r *Reporter) RegisterCandidateScore(score int, durationKey int) {
	if score <= 0 {
		return
	}
	logger := r.logger()

	best, err := r.Store.HighScore(r.Mode, durationKey)
	if err != nil {
		logger.Warn("cannot read high score", "mode", r.Mode, "err", err)
	}

	id, err := r.Store.SaveScore(r.Mode, durationKey, r.Player, score)
	if err != nil {
		logger.Error("cannot save score", "mode", r.Mode, "score", score, "err", err)
		return
	}
	logger.Debug("score saved", "mode", r.Mode, "duration", durationKey, "score", score, "record", id)

	if score > best && r.OnNewHigh != nil {
		r.OnNewHigh(score, durationKey)
	}
}

func (r *Reporter) logger() *log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.New(io.Discard)
}

var _ core.ScoreReporter = (*Reporter)(nil)
