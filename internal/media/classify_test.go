package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		declared Kind
		want     Kind
	}{
		{"declared video trusted", "https://cdn.example.com/clip.mp4", KindVideo, KindVideo},
		{"declared audio trusted even without extension", "https://cdn.example.com/blob", KindAudio, KindAudio},
		{"declared image sniffs video extension", "https://cdn.example.com/clip.mp4", KindImage, KindVideo},
		{"declared image sniffs audio extension", "https://cdn.example.com/track.mp3", KindImage, KindAudio},
		{"empty declared sniffs extension", "https://cdn.example.com/clip.webm", "", KindVideo},
		{"uppercase extension", "https://cdn.example.com/CLIP.MOV", KindImage, KindVideo},
		{"image extension stays image", "https://cdn.example.com/photo.png", KindImage, KindImage},
		{"unknown extension defaults to image", "https://cdn.example.com/file.xyz", KindImage, KindImage},
		{"no extension defaults to image", "https://cdn.example.com/photo", KindImage, KindImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.url, tt.declared))
		})
	}
}
