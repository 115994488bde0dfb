// Package metadata stamps generated reports with a provenance block and
// verifies them against it.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// TagStart is the start of the provenance block.
	TagStart = "<!-- RESCUEMAP_META_START"
	// TagEnd is the end of the provenance block.
	TagEnd = "RESCUEMAP_META_END -->"
)

// Verification errors.
var (
	ErrNoMetadataBlock = errors.New("no metadata block found")
	ErrNoHashFound     = errors.New("no hash found in metadata")
	ErrHashMismatch    = errors.New("hash mismatch")
)

// Metadata records when and from what a report was generated.
type Metadata struct {
	GeneratedAt time.Time
	Version     string
	Hash        string
	Validated   bool
}

// metadataRegex matches the entire provenance block including tags.
var metadataRegex = regexp.MustCompile(`(?s)<!--\s*RESCUEMAP_META_START\s*\n(.*?)\n\s*RESCUEMAP_META_END\s*-->`)

// Extract removes the provenance block from content and returns both the
// metadata and the cleaned content. The cleaned content is what gets hashed.
func Extract(content string) (*Metadata, string) {
	match := metadataRegex.FindStringSubmatch(content)
	cleanContent := metadataRegex.ReplaceAllString(content, "")
	cleanContent = strings.TrimRight(cleanContent, "\n")

	if len(match) < 2 {
		return nil, cleanContent
	}

	meta := &Metadata{}

	lines := strings.SplitSeq(match[1], "\n")
	for line := range lines {
		parts := strings.SplitN(strings.TrimSpace(line), ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])

		switch key {
		case "VALIDATED":
			meta.Validated = strings.EqualFold(val, "TRUE")
		case "GENERATED":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				meta.GeneratedAt = t
			}
		case "HASH":
			meta.Hash = val
		case "VERSION":
			meta.Version = val
		}
	}

	return meta, cleanContent
}

// CalculateHash computes the SHA-256 hash of the content, excluding any
// provenance block.
func CalculateHash(content string) string {
	_, clean := Extract(content)
	hash := sha256.Sum256([]byte(clean))

	return hex.EncodeToString(hash[:])
}

// Sign appends or replaces the provenance block with a fresh hash and
// generation timestamp.
func Sign(content, version string, validated bool) string {
	_, clean := Extract(content)

	hash := CalculateHash(clean)
	now := time.Now().UTC().Format(time.RFC3339)

	valStr := "FALSE"
	if validated {
		valStr = "TRUE"
	}

	newBlock := fmt.Sprintf("\n\n%s\nVALIDATED: %s\nGENERATED: %s\nVERSION: %s\nHASH: %s\n%s",
		TagStart, valStr, now, version, hash, TagEnd)

	return clean + newBlock
}

// Verify checks if the content matches the hash in its provenance block.
func Verify(content string) (bool, error) {
	meta, clean := Extract(content)
	if meta == nil {
		return false, ErrNoMetadataBlock
	}

	if meta.Hash == "" {
		return false, ErrNoHashFound
	}

	calculated := CalculateHash(clean)
	if calculated != meta.Hash {
		return false, fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, meta.Hash, calculated)
	}

	return true, nil
}
