package public

import (
	"encoding/json"
	"testing"

	"gallery-app/internal/domain/artworks"
	"gallery-app/internal/domain/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtworkImagesOmittedWhenMissing(t *testing.T) {
	bare, err := json.Marshal(toArtwork(artworks.Artwork{ID: "a1", Title: "Sketch"}))
	require.NoError(t, err)
	assert.NotContains(t, string(bare), `"images"`)

	withImage, err := json.Marshal(toArtwork(artworks.Artwork{ID: "a2", Title: "Linked", Images: media.External("https://example.com/a.jpg")}))
	require.NoError(t, err)
	assert.Contains(t, string(withImage), `"thumb":"https://example.com/a.jpg"`)
}

func TestCustomMediumReplacesOther(t *testing.T) {
	dto := toArtwork(artworks.Artwork{Medium: artworks.MediumOther, CustomMedium: "encaustic"})
	assert.Equal(t, "encaustic", dto.Medium)
}
