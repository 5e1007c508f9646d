package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	name := ObjectName("/gallery/", "image/png")
	assert.True(t, strings.HasPrefix(name, "gallery/"))
	assert.True(t, strings.HasSuffix(name, ".png"))

	assert.True(t, strings.HasSuffix(ObjectName("gallery", "image/jpeg"), ".jpg"))
	assert.True(t, strings.HasSuffix(ObjectName("gallery", "text/plain"), ".bin"))
	assert.NotEqual(t, ObjectName("gallery", "image/png"), ObjectName("gallery", "image/png"))
}

func TestObjectFromURL(t *testing.T) {
	object, err := ObjectFromURL("art", "https://storage.googleapis.com/art/gallery/a.png")
	require.NoError(t, err)
	assert.Equal(t, "gallery/a.png", object)

	_, err = ObjectFromURL("art", "https://storage.googleapis.com/other/gallery/a.png")
	assert.Error(t, err)

	_, err = ObjectFromURL("art", "https://example.com/art/a.png")
	assert.Error(t, err)

	_, err = ObjectFromURL("art", "https://storage.googleapis.com/art/")
	assert.Error(t, err)
}
