package classify

import "sort"

// kmeans1D runs 1-D k-means with k=3, seeded at the 10th/50th/90th
// percentiles of values. It iterates until centroid motion drops below
// 0.5 or 20 iterations pass, and returns the three centroids sorted
// ascending.
func kmeans1D(values []float64) [3]float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	centroids := [3]float64{
		percentile(sorted, 0.10),
		percentile(sorted, 0.50),
		percentile(sorted, 0.90),
	}

	for iter := 0; iter < 20; iter++ {
		var sums [3]float64
		var counts [3]int
		for _, v := range values {
			best := 0
			bestDist := abs(v - centroids[0])
			for k := 1; k < 3; k++ {
				if d := abs(v - centroids[k]); d < bestDist {
					best, bestDist = k, d
				}
			}
			sums[best] += v
			counts[best]++
		}

		var next [3]float64
		var maxMotion float64
		for k := 0; k < 3; k++ {
			if counts[k] == 0 {
				next[k] = centroids[k]
				continue
			}
			next[k] = sums[k] / float64(counts[k])
			if m := abs(next[k] - centroids[k]); m > maxMotion {
				maxMotion = m
			}
		}
		centroids = next
		if maxMotion < 0.5 {
			break
		}
	}

	sort.Float64s(centroids[:])
	return centroids
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
