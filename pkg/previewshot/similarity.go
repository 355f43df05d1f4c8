package previewshot

import (
	"github.com/glaslos/ssdeep"
)

type fingerprint struct {
	style string
	hash  string
}

// duplicateIndex remembers the fuzzy hash of every capture in a run.
type duplicateIndex struct {
	threshold int
	seen      []fingerprint
}

func newDuplicateIndex(threshold int) *duplicateIndex {
	return &duplicateIndex{threshold: threshold}
}

// Check records img under style and returns the earlier style it resembles,
// if any. Images too small to hash are never reported.
func (d *duplicateIndex) Check(style string, img Image) (similarTo string, score int, err error) {
	hash, err := ssdeep.FuzzyBytes(img)
	if err != nil {
		return "", 0, err
	}

	for _, f := range d.seen {
		s, err := ssdeep.Distance(hash, f.hash)
		if err != nil {
			continue
		}
		if s >= d.threshold {
			similarTo, score = f.style, s
			break
		}
	}

	d.seen = append(d.seen, fingerprint{style: style, hash: hash})
	return similarTo, score, nil
}
