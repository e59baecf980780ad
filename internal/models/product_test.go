package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeImages(t *testing.T) {
	assert.Equal(t, "[]", EncodeImages(nil))
	assert.Equal(t, "[]", EncodeImages([]string{}))
	assert.Equal(t, `["https://cdn.example.com/a.png"]`, EncodeImages([]string{"https://cdn.example.com/a.png"}))
}

func TestDecodeImages(t *testing.T) {
	assert.Equal(t, []string{}, DecodeImages(""))
	assert.Equal(t, []string{}, DecodeImages("not json"))
	assert.Equal(t, []string{}, DecodeImages("[]"))
	assert.Equal(t,
		[]string{"https://cdn.example.com/a.png", "https://cdn.example.com/b.png"},
		DecodeImages(`["https://cdn.example.com/a.png","https://cdn.example.com/b.png"]`))
}

func TestImagesRoundtrip(t *testing.T) {
	images := []string{"https://cdn.example.com/a.png", "https://cdn.example.com/b.png"}
	assert.Equal(t, images, DecodeImages(EncodeImages(images)))
}
