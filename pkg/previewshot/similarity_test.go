package previewshot

import (
	"bytes"
	"image"
	"image/png"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noisePNG returns an incompressible PNG large enough to fuzzy-hash.
func noisePNG(seed int64) []byte {
	rnd := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	rnd.Read(img.Pix)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func TestDuplicateIndex(t *testing.T) {
	d := newDuplicateIndex(96)

	similarTo, _, err := d.Check("a", noisePNG(1))
	require.NoError(t, err)
	assert.Empty(t, similarTo)

	similarTo, _, err = d.Check("b", noisePNG(2))
	require.NoError(t, err)
	assert.Empty(t, similarTo)

	similarTo, score, err := d.Check("c", noisePNG(1))
	require.NoError(t, err)
	assert.Equal(t, "a", similarTo)
	assert.GreaterOrEqual(t, score, 96)
}

func TestDuplicateIndexSmallImage(t *testing.T) {
	d := newDuplicateIndex(96)

	_, _, err := d.Check("tiny", []byte("png"))
	assert.Error(t, err)
	assert.Empty(t, d.seen)
}
