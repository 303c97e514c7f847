// Package render provides chart.Canvas implementations: a raster canvas
// backed by gg and an SVG document canvas.
package render

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var goRegular = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// Faces caches Go Regular faces by pixel size. Faces are not safe for
// concurrent use, so every canvas owns its own cache.
type Faces struct {
	cache map[float64]font.Face
}

// NewFaces returns an empty face cache.
func NewFaces() *Faces {
	return &Faces{cache: make(map[float64]font.Face)}
}

// Face returns a face of the given pixel size. Sizes that are not positive,
// or a font that fails to load, fall back to basicfont.Face7x13.
func (f *Faces) Face(size float64) font.Face {
	if size <= 0 {
		return basicfont.Face7x13
	}
	if face, ok := f.cache[size]; ok {
		return face
	}
	otf, err := goRegular()
	if err != nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	f.cache[size] = face
	return face
}

// measure returns the advance width and the ascent of s in face.
func measure(face font.Face, s string) (w, h float64) {
	adv := font.MeasureString(face, s)
	return float64(adv) / 64, float64(face.Metrics().Ascent) / 64
}
