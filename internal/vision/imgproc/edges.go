package imgproc

import "math"

// Canny runs a minimal Canny edge detector over g: Sobel gradients, 3x3
// non-maximum suppression along the gradient direction, then double
// thresholding with hysteresis. lowThresh/highThresh are in gradient
// magnitude units, not normalised to [0,1].
func Canny(g *Grayscale, lowThresh, highThresh float64) *Mask {
	gx, gy := sobel(g)
	w, h := g.Width, g.Height
	mag := make([]float64, w*h)
	dir := make([]float64, w*h)
	for i := range mag {
		mag[i] = math.Hypot(gx[i], gy[i])
		dir[i] = math.Atan2(gy[i], gx[i])
	}

	suppressed := nonMaxSuppress(mag, dir, w, h)
	return hysteresis(suppressed, w, h, lowThresh, highThresh)
}

func sobel(g *Grayscale) (gx, gy []float64) {
	w, h := g.Width, g.Height
	gx = make([]float64, w*h)
	gy = make([]float64, w*h)
	at := func(x, y int) float64 {
		if x < 0 {
			x = 0
		}
		if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		}
		if y >= h {
			y = h - 1
		}
		return float64(g.At(x, y))
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx := -at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1) +
				at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1)
			sy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
			gx[y*w+x] = sx
			gy[y*w+x] = sy
		}
	}
	return
}

func nonMaxSuppress(mag, dir []float64, w, h int) []float64 {
	out := make([]float64, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			idx := y*w + x
			angle := dir[idx]
			// snap to one of 4 directions: 0, 45, 90, 135 degrees
			deg := math.Mod(angle*180/math.Pi+180, 180)
			var n1, n2 float64
			switch {
			case deg < 22.5 || deg >= 157.5:
				n1, n2 = mag[idx-1], mag[idx+1]
			case deg < 67.5:
				n1, n2 = mag[idx-w+1], mag[idx+w-1]
			case deg < 112.5:
				n1, n2 = mag[idx-w], mag[idx+w]
			default:
				n1, n2 = mag[idx-w-1], mag[idx+w+1]
			}
			if mag[idx] >= n1 && mag[idx] >= n2 {
				out[idx] = mag[idx]
			}
		}
	}
	return out
}

func hysteresis(mag []float64, w, h int, low, high float64) *Mask {
	strong := NewMask(w, h)
	weak := NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := mag[y*w+x]
			if v >= high {
				strong.Set(x, y, true)
			} else if v >= low {
				weak.Set(x, y, true)
			}
		}
	}

	out := NewMask(w, h)
	copy(out.Bits, strong.Bits)
	// grow strong edges through 8-connected weak neighbours, repeating
	// full passes until one adds no new edge pixel
	changed := true
	for changed {
		changed = false
		for y := 1; y < h-1; y++ {
			for x := 1; x < w-1; x++ {
				if out.At(x, y) || !weak.At(x, y) {
					continue
				}
				if out.At(x-1, y) || out.At(x+1, y) || out.At(x, y-1) || out.At(x, y+1) ||
					out.At(x-1, y-1) || out.At(x+1, y-1) || out.At(x-1, y+1) || out.At(x+1, y+1) {
					out.Set(x, y, true)
					changed = true
				}
			}
		}
	}
	return out
}
