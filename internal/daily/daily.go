package daily

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

// BoardSize returns a deterministic board size in [minSize, maxSize] for the
// date of t using HMAC(salt, YYYY-MM-DD). An empty range yields minSize.
func BoardSize(t time.Time, salt string, minSize, maxSize int) int {
	span := maxSize - minSize + 1
	if span <= 1 {
		return minSize
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(t)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	n := binary.BigEndian.Uint64(sum[:8])
	return minSize + int(n%uint64(span))
}
