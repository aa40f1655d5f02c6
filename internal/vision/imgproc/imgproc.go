// Package imgproc implements the low-level image primitives of the
// board recognition pipeline: grayscale conversion, resizing, saturation
// segmentation and morphological dilation. Nothing here depends on a
// decoded file format; callers hand in an already-decoded *image.RGBA.
//
// Saturation-mask segmentation and the square-structuring-element
// dilation below work directly off the raw pixel buffer rather than a
// vision library, since neither is a generic enough operation to pull
// one in for. Resizing is the one primitive with a ready ecosystem
// answer and uses golang.org/x/image/draw's bilinear scaler.
package imgproc

import (
	"image"

	"golang.org/x/image/draw"
)

// Grayscale is a flat row-major intensity buffer, one byte per pixel,
// using the unweighted mean of R, G, B (nothing in the recognition path
// calls for a luma-weighted conversion).
type Grayscale struct {
	Width, Height int
	Pix []uint8
}

func (g *Grayscale) At(x, y int) uint8 {
	return g.Pix[y*g.Width+x]
}

// ToGrayscale converts img to a Grayscale buffer.
func ToGrayscale(img *image.RGBA) *Grayscale {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	g := &Grayscale{Width: w, Height: h, Pix: make([]uint8, w*h)}
	for y := 0; y < h; y++ {
		rowOff := img.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < w; x++ {
			off := rowOff + x*4
			r, gg, bb := img.Pix[off], img.Pix[off+1], img.Pix[off+2]
			g.Pix[y*w+x] = uint8((uint32(r) + uint32(gg) + uint32(bb)) / 3)
		}
	}
	return g
}

// Resize scales img to width x height using bilinear interpolation.
func Resize(img *image.RGBA, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// Saturation returns the per-pixel saturation, `(max-min)/max` of the RGB
// channels, zero when max is zero.
func Saturation(img *image.RGBA, x, y int) float64 {
	off := img.PixOffset(x, y)
	r, g, b := img.Pix[off], img.Pix[off+1], img.Pix[off+2]
	maxV := max3(r, g, b)
	if maxV == 0 {
		return 0
	}
	minV := min3(r, g, b)
	return float64(maxV-minV) / float64(maxV)
}

// Brightness is the mean of the RGB channels at (x,y).
func Brightness(img *image.RGBA, x, y int) float64 {
	off := img.PixOffset(x, y)
	r, g, b := img.Pix[off], img.Pix[off+1], img.Pix[off+2]
	return (float64(r) + float64(g) + float64(b)) / 3
}

// Mask is a flat boolean buffer the size of the source image.
type Mask struct {
	Width, Height int
	Bits []bool
}

func NewMask(w, h int) *Mask {
	return &Mask{Width: w, Height: h, Bits: make([]bool, w*h)}
}

func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Bits[y*m.Width+x]
}

func (m *Mask) Set(x, y int, v bool) {
	m.Bits[y*m.Width+x] = v
}

// SaturationMask builds the mask defines: pixels with
// saturation > 0.1 and brightness in (35, 235).
func SaturationMask(img *image.RGBA) *Mask {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	m := NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ix, iy := b.Min.X+x, b.Min.Y+y
			sat := Saturation(img, ix, iy)
			br := Brightness(img, ix, iy)
			m.Set(x, y, sat > 0.1 && br > 35 && br < 235)
		}
	}
	return m
}

// Dilate grows m by a square structuring element of the given radius.
func Dilate(m *Mask, radius int) *Mask {
	out := NewMask(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.At(x, y) {
				out.Set(x, y, true)
				continue
			}
			hit := false
			for dy := -radius; dy <= radius && !hit; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					if m.At(x+dx, y+dy) {
						hit = true
						break
					}
				}
			}
			out.Set(x, y, hit)
		}
	}
	return out
}

func max3(a, b, c uint8) uint8 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func min3(a, b, c uint8) uint8 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
