package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMediaKey(t *testing.T) {
	keyPattern := `^reports/\d+-[\w-]{8}`

	assert.Regexp(t, keyPattern+`\.png$`, MediaKey("photo.png"))
	assert.Regexp(t, keyPattern+`\.png$`, MediaKey("PHOTO.PNG"))
	assert.Regexp(t, keyPattern+`\.mp4$`, MediaKey("some dir/clip.mp4"))
	assert.Regexp(t, keyPattern+`$`, MediaKey("no-extension"))
}

func TestMediaKey_Unique(t *testing.T) {
	assert.NotEqual(t, MediaKey("photo.png"), MediaKey("photo.png"))
}
