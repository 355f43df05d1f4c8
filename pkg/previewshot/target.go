package previewshot

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Target is the URL and output file derived from a style identifier.
type Target struct {
	Style string
	URL   string
	Path  string
}

// Result contains the outcome of one capture.
type Result struct {
	Target Target
	Image  Image
	Error  error
}

// Image holds PNG bytes as returned by the browser.
type Image []byte

// NewTarget derives the capture target for style.
func NewTarget(baseURL, outputDir, style string) Target {
	return Target{
		Style: style,
		URL:   strings.TrimSuffix(baseURL, "/") + "/style/" + url.PathEscape(style),
		Path:  filepath.Join(outputDir, style+".png"),
	}
}

// EnsureFolder creates the folder and its parents. It succeeds if the folder
// already exists.
func EnsureFolder(path string) error {
	return os.MkdirAll(path, os.ModePerm)
}

// SaveImage writes img to path, replacing any existing file.
func SaveImage(path string, img Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	_, err = file.Write(img)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}
