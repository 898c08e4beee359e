package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	nanoIDAlphabet    = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	defaultNanoIDSize = 21
)

// NanoID returns a URL-safe alphanumeric identifier of the default length.
// Used for report IDs and anywhere else a short unique handle is needed.
func NanoID() string {
	return NanoIDSize(defaultNanoIDSize)
}

// NanoIDSize returns an identifier of the requested length; a non-positive
// size falls back to the default.
func NanoIDSize(size int) string {
	if size <= 0 {
		size = defaultNanoIDSize
	}

	return gonanoid.MustGenerate(nanoIDAlphabet, size)
}
