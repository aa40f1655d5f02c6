package imgproc

import "math"

// HoughLine is one accumulator peak: the line rho = x*cos(theta) +
// y*sin(theta), with its vote count.
type HoughLine struct {
	Rho, Theta float64
	Votes      int
}

// HoughLines builds the classic rho/theta accumulator over an edge mask
// and returns every bin whose vote count is at least minVotes, sorted by
// vote count descending. thetaSteps controls angular resolution (typically
// 180 for one-degree bins).
func HoughLines(edges *Mask, thetaSteps, minVotes int) []HoughLine {
	w, h := edges.Width, edges.Height
	maxRho := math.Hypot(float64(w), float64(h))
	rhoSteps := int(2*maxRho) + 1

	cosT := make([]float64, thetaSteps)
	sinT := make([]float64, thetaSteps)
	for t := 0; t < thetaSteps; t++ {
		theta := math.Pi * float64(t) / float64(thetaSteps)
		cosT[t] = math.Cos(theta)
		sinT[t] = math.Sin(theta)
	}

	acc := make([]int, rhoSteps*thetaSteps)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !edges.At(x, y) {
				continue
			}
			for t := 0; t < thetaSteps; t++ {
				rho := float64(x)*cosT[t] + float64(y)*sinT[t]
				rIdx := int(rho+maxRho+0.5)
				if rIdx < 0 || rIdx >= rhoSteps {
					continue
				}
				acc[rIdx*thetaSteps+t]++
			}
		}
	}

	var lines []HoughLine
	for r := 0; r < rhoSteps; r++ {
		for t := 0; t < thetaSteps; t++ {
			v := acc[r*thetaSteps+t]
			if v >= minVotes {
				lines = append(lines, HoughLine{
					Rho:   float64(r) - maxRho,
					Theta: math.Pi * float64(t) / float64(thetaSteps),
					Votes: v,
				})
			}
		}
	}

	for i := 1; i < len(lines); i++ {
		for j := i; j > 0 && lines[j-1].Votes < lines[j].Votes; j-- {
			lines[j-1], lines[j] = lines[j], lines[j-1]
		}
	}
	return lines
}
