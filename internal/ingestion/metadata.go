package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Metadata describes one read of a webpage.
type Metadata struct {
	URL        string `json:"url,omitempty"`
	Timestamp  string `json:"timestamp"`
	Hash       string `json:"hash"`
	Platform   string `json:"platform,omitempty"`
	Rendered   bool   `json:"rendered"`
	StatusCode int    `json:"status_code,omitempty"`
	FromCache  bool   `json:"from_cache,omitempty"`
}

// NewMetadata stamps content read from url with the current time and its SHA-256.
func NewMetadata(content string, url string) *Metadata {
	return &Metadata{
		URL:       url,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
	}
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
