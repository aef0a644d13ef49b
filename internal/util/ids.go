package util

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// NewScoreID derives the short identifier for a quiz attempt from the
// username and the attempt time. The format (first 10 hex characters of an
// md5 digest) is fixed by the data already on disk: migrated and freshly
// created scores must be indistinguishable. It is collision-tolerated, not
// collision-proof.
func NewScoreID(username string, at time.Time) string {
	return ScoreIDFromRaw(username, at.Format(time.RFC3339Nano))
}

// ScoreIDFromRaw builds a score ID from the username and a raw timestamp
// string. Migration uses this to backfill IDs for legacy records so the
// derived value matches what the application would have produced.
func ScoreIDFromRaw(username, rawTimestamp string) string {
	sum := md5.Sum([]byte(username + "_" + rawTimestamp))
	return hex.EncodeToString(sum[:])[:10]
}

// NewCertificateID derives the certificate identifier printed on completion
// certificates: first 8 hex characters of md5(username_score_date), uppercased.
func NewCertificateID(username string, score float64, date string) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s_%v_%s", username, score, date)))
	return strings.ToUpper(hex.EncodeToString(sum[:])[:8])
}

// HashPassword hashes a plain-text password with SHA-256. The hex encoding
// matches the digests already stored in users.json, so it must not change.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
