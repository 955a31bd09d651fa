package session

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns the sha256 hex digest of content. Session records carry
// fingerprints of the host file and the companion document so that external
// edits can be detected before the engine mutates anything.
func Fingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Key derives the short digest used to name every file a session owns on
// disk: the sidecar, the companion copy, the backup, and the lock. It hashes
// the absolute host path so that two hosts with the same base name never
// collide.
func Key(hostPath string) string {
	sum := sha256.Sum256([]byte(hostPath))
	return hex.EncodeToString(sum[:])[:16]
}
