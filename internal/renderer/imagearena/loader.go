package imagearena

import (
	"fmt"
	"image"
	"os"

	// Decoders for the common raster formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"

	"github.com/dshills/mdink/internal/markdown"
)

// Loader loads image files into an Arena. It implements the
// interpreter's ImageLoader contract.
type Loader struct {
	arena *Arena
}

// NewLoader creates a loader that registers resources with arena.
func NewLoader(arena *Arena) *Loader {
	return &Loader{arena: arena}
}

// Load decodes and scales an image to at most maxWidthCells columns,
// registers the resource, and returns its placement. Every failure is
// an error value; nothing panics and nothing is partially registered.
func (l *Loader) Load(path string, maxWidthCells int) (markdown.ImagePlacement, error) {
	if maxWidthCells < 1 {
		return markdown.ImagePlacement{}, fmt.Errorf("load image %s: no display width", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return markdown.ImagePlacement{}, fmt.Errorf("load image: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return markdown.ImagePlacement{}, fmt.Errorf("decode image %s: %w", path, err)
	}

	res := scale(src, maxWidthCells)
	index := l.arena.Register(res)
	return markdown.ImagePlacement{
		Resource: index,
		Width:    res.widthCells,
		Height:   res.heightCells,
	}, nil
}

// scale resizes src so it fits maxWidthCells columns, preserving
// aspect ratio. Each cell covers a 1x2 pixel block (half-block
// rendering), which also corrects for the ~1:2 cell aspect of
// terminal fonts.
func scale(src image.Image, maxWidthCells int) *Resource {
	sb := src.Bounds()
	srcW := sb.Dx()
	srcH := sb.Dy()
	if srcW < 1 {
		srcW = 1
	}
	if srcH < 1 {
		srcH = 1
	}

	widthCells := srcW
	if widthCells > maxWidthCells {
		widthCells = maxWidthCells
	}
	if widthCells < 1 {
		widthCells = 1
	}

	pxW := widthCells
	pxH := srcH * pxW / srcW
	if pxH < 1 {
		pxH = 1
	}
	heightCells := (pxH + 1) / 2

	dst := image.NewRGBA(image.Rect(0, 0, pxW, pxH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, xdraw.Over, nil)

	return &Resource{
		img:         dst,
		widthCells:  widthCells,
		heightCells: heightCells,
	}
}
