// Package media classifies report attachments so templates can pick the
// right preview affordance.
package media

import (
	"path"
	"strings"
)

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
)

var videoExtensions = map[string]struct{}{
	"mp4":  {},
	"mov":  {},
	"avi":  {},
	"mkv":  {},
	"webm": {},
}

var audioExtensions = map[string]struct{}{
	"mp3":  {},
	"wav":  {},
	"m4a":  {},
	"ogg":  {},
	"flac": {},
}

// Classify determines the media kind for a URL. A declared kind other than
// image is trusted outright; image is the implicit default and triggers
// extension sniffing, case-insensitive.
func Classify(url string, declared Kind) Kind {
	if declared != KindImage && declared != "" {
		return declared
	}

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(url), "."))

	if _, ok := videoExtensions[ext]; ok {
		return KindVideo
	}

	if _, ok := audioExtensions[ext]; ok {
		return KindAudio
	}

	return KindImage
}
