package selector

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// DailySeed derives a deterministic seed for a date using
// HMAC(salt, YYYY-MM-DD), so every player gets the same daily board.
func DailySeed(date time.Time, salt string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// take first 8 bytes; clear the sign bit so seeds stay positive
	return int64(binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63))
}
