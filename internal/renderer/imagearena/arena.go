// Package imagearena owns the non-duplicable terminal graphics
// resources produced by image loading. Resources are exposed only
// through integer indices: display lines stay freely copyable while
// the arena remains the sole owner of the mutable handles.
package imagearena

import (
	"fmt"
	"image"

	"github.com/dshills/mdink/internal/renderer/core"
)

// Resource is one loaded image: the scaled raster plus the half-block
// cell grid derived from it. The cell grid is built lazily at draw
// time and cached, which is why the renderer needs mutable access.
type Resource struct {
	img         *image.RGBA
	widthCells  int
	heightCells int

	// cells is the cached half-block rendering; nil until first draw.
	cells [][]core.Cell
}

// Size returns the reserved cell dimensions.
func (r *Resource) Size() (width, height int) {
	return r.widthCells, r.heightCells
}

// Cells returns the half-block cell grid, building it on first use.
// Each cell renders U+2580 with the upper pixel as foreground and the
// lower pixel as background; transparent pixels keep the terminal
// default color.
func (r *Resource) Cells() [][]core.Cell {
	if r.cells != nil {
		return r.cells
	}

	grid := make([][]core.Cell, r.heightCells)
	bounds := r.img.Bounds()
	for cy := 0; cy < r.heightCells; cy++ {
		row := make([]core.Cell, r.widthCells)
		for cx := 0; cx < r.widthCells; cx++ {
			top, topOK := pixelColor(r.img, bounds, cx, cy*2)
			bottom, bottomOK := pixelColor(r.img, bounds, cx, cy*2+1)

			st := core.DefaultStyle()
			if topOK {
				st.Foreground = top
			}
			if bottomOK {
				st.Background = bottom
			}
			row[cx] = core.Cell{Rune: '▀', Width: 1, Style: st}
		}
		grid[cy] = row
	}
	r.cells = grid
	return r.cells
}

// pixelColor reads one pixel, reporting false for out-of-bounds or
// mostly transparent pixels.
func pixelColor(img *image.RGBA, bounds image.Rectangle, x, y int) (core.Color, bool) {
	px := bounds.Min.X + x
	py := bounds.Min.Y + y
	if px >= bounds.Max.X || py >= bounds.Max.Y {
		return core.Color{}, false
	}
	c := img.RGBAAt(px, py)
	if c.A < 128 {
		return core.Color{}, false
	}
	return core.ColorFromRGB(c.R, c.G, c.B), true
}

// Arena owns all image resources for the current document.
type Arena struct {
	resources []*Resource
}

// New creates an empty arena.
func New() *Arena {
	return &Arena{}
}

// Register takes ownership of a resource and returns its index.
func (a *Arena) Register(res *Resource) int {
	a.resources = append(a.resources, res)
	return len(a.resources) - 1
}

// GetMut returns mutable access to the resource at index. Passing an
// index that was not obtained from Register is a programmer error and
// panics.
func (a *Arena) GetMut(index int) *Resource {
	if index < 0 || index >= len(a.resources) {
		panic(fmt.Sprintf("imagearena: index %d not obtained from Register (len %d)", index, len(a.resources)))
	}
	return a.resources[index]
}

// Len returns the number of registered resources.
func (a *Arena) Len() int {
	return len(a.resources)
}

// Reset drops all resources. Called when a document is closed or
// reloaded; outstanding indices become invalid.
func (a *Arena) Reset() {
	a.resources = nil
}
