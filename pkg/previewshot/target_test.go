package previewshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTarget(t *testing.T) {
	tests := []struct {
		base, dir, style string
		url, path        string
	}{
		{"http://localhost:5173", "public/previews", "minimal-direct",
			"http://localhost:5173/style/minimal-direct", filepath.Join("public", "previews", "minimal-direct.png")},
		{"http://localhost:5173/", "out", "heat-map-style",
			"http://localhost:5173/style/heat-map-style", filepath.Join("out", "heat-map-style.png")},
		{"https://preview.test:8443", "/tmp/p", "a b",
			"https://preview.test:8443/style/a%20b", filepath.Join("/tmp/p", "a b.png")},
	}

	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			target := NewTarget(tt.base, tt.dir, tt.style)
			assert.Equal(t, tt.style, target.Style)
			assert.Equal(t, tt.url, target.URL)
			assert.Equal(t, tt.path, target.Path)
		})
	}
}

func TestEnsureFolderIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public", "previews")

	require.NoError(t, EnsureFolder(dir))
	require.NoError(t, EnsureFolder(dir))
	assert.DirExists(t, dir)
}

func TestSaveImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")

	require.NoError(t, SaveImage(path, Image("first version")))
	require.NoError(t, SaveImage(path, Image("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestDefaultStyles(t *testing.T) {
	styles := DefaultStyles()
	require.Len(t, styles, 18)
	assert.Equal(t, "hero-centric-design", styles[0])
	assert.Equal(t, "data-dense-dashboard", styles[len(LandingStyles)])
	assert.Equal(t, "sales-intelligence-dashboard", styles[17])

	seen := map[string]bool{}
	for _, s := range styles {
		assert.False(t, seen[s], "duplicate style %s", s)
		seen[s] = true
	}

	styles[0] = "changed"
	assert.Equal(t, "hero-centric-design", DefaultStyles()[0])
}
