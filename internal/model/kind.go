package model

import "slices"

const mib = 1024 * 1024

// AssetKind carries the per-collection constants that distinguish sprites from
// audio clips. Both kinds share the same handling otherwise.
type AssetKind struct {
	// Label is the human-readable name used in response messages.
	Label        string
	Collection   string
	ListKey      string
	AllowedTypes []string
	MaxBytes     int64
	TypeMessage  string
	SizeMessage  string
}

var (
	Sprites = AssetKind{
		Label:        "Sprite",
		Collection:   "sprites",
		ListKey:      "sprites",
		AllowedTypes: []string{"image/png", "image/jpeg"},
		MaxBytes:     2 * mib,
		TypeMessage:  "Only PNG and JPG images are allowed.",
		SizeMessage:  "Image file too large (max 2MB).",
	}
	Audio = AssetKind{
		Label:        "Audio file",
		Collection:   "audio",
		ListKey:      "audio_files",
		AllowedTypes: []string{"audio/mpeg", "audio/wav"},
		MaxBytes:     5 * mib,
		TypeMessage:  "Only MP3 or WAV files are allowed.",
		SizeMessage:  "Audio file too large (max 5MB).",
	}
)

// ScoresCollection is the collection holding PlayerScore documents.
const ScoresCollection = "scores"

// Collections lists every collection the service reads or writes.
func Collections() []string {
	return []string{Sprites.Collection, Audio.Collection, ScoresCollection}
}

// AllowsType reports whether the declared content type is in the allow-list.
// The comparison is exact: parameters and case variants are rejected.
func (k AssetKind) AllowsType(contentType string) bool {
	return slices.Contains(k.AllowedTypes, contentType)
}

// FitsSize reports whether n bytes are within the kind's ceiling (inclusive).
func (k AssetKind) FitsSize(n int) bool {
	return int64(n) <= k.MaxBytes
}

func (k AssetKind) NotFoundMessage() string { return k.Label + " not found" }
