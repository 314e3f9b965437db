package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugifyFilename(t *testing.T) {
	tests := map[string]string{
		"Kick Drum.wav":         "kick-drum.wav",
		"  Bass   DI  .WAV ":    "bass-di-.wav",
		"Café Vocals (take 2)":  "cafe-vocals-take-2",
		"guitar--L__01.aiff":    "guitar-l__01.aiff",
		"日本語.mp3":               ".mp3",
		"snare/../../etc.wav":   "snare....etc.wav",
	}
	for in, want := range tests {
		assert.Equal(t, want, SlugifyFilename(in), in)
	}
}

func TestToFolderName(t *testing.T) {
	assert.Equal(t, "My Song - Final", ToFolderName("My Song - Final!"))
	assert.Equal(t, "Drums_1", ToFolderName(" Drums_1/ "))
	assert.Equal(t, "unknown_name", ToFolderName("???"))
	assert.Equal(t, "unknown_name", ToFolderName(""))
}
