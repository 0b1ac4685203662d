// Package cluster partitions dense vectors with a deterministic K-Means.
package cluster

import "sort"

// DefaultMaxIterations bounds the number of assignment/update passes.
const DefaultMaxIterations = 5

// Options tunes KMeans.
type Options struct {
	MaxIterations int
}

// Cluster is one non-empty group of document positions.
type Cluster struct {
	ID      int
	Members []int
}

// Size is the member count.
func (c Cluster) Size() int {
	return len(c.Members)
}

// Result is the outcome of one KMeans call.
type Result struct {
	// Clusters holds the non-empty clusters, largest first.
	Clusters []Cluster
	// Labels maps each input position to its cluster ID.
	Labels []int
	// K is the effective cluster count after clamping.
	K int
	// Iterations is the number of passes executed.
	Iterations int
}

// EffectiveK clamps k to [1, n].
func EffectiveK(k, n int) int {
	if k > n {
		k = n
	}
	if k < 1 {
		k = 1
	}
	return k
}

// KMeans clusters vectors into at most k groups.
//
// Centroids are seeded with copies of the first k vectors. Each pass assigns
// every vector to its nearest centroid by squared Euclidean distance (ties go
// to the lower cluster ID), then moves each centroid to the mean of its
// members. A centroid that lost all members keeps its previous position.
// Iteration stops after MaxIterations passes or as soon as a pass changes no
// assignment. Identical input always gives identical output.
func KMeans(vectors [][]float64, k int, opts Options) Result {
	n := len(vectors)
	if n == 0 {
		return Result{}
	}
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	k = EffectiveK(k, n)

	centroids := make([][]float64, k)
	for i := 0; i < k; i++ {
		centroids[i] = append([]float64(nil), vectors[i]...)
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	iterations := 0
	for iterations < maxIter {
		iterations++
		changed := assign(vectors, centroids, labels)
		update(vectors, centroids, labels)
		if !changed {
			break
		}
	}

	return Result{
		Clusters:   group(labels, k),
		Labels:     labels,
		K:          k,
		Iterations: iterations,
	}
}

// assign labels every vector with its nearest centroid and reports whether
// any label changed.
func assign(vectors, centroids [][]float64, labels []int) bool {
	changed := false
	for i, vec := range vectors {
		best := 0
		bestDist := SquaredDistance(vec, centroids[0])
		for c := 1; c < len(centroids); c++ {
			if d := SquaredDistance(vec, centroids[c]); d < bestDist {
				best, bestDist = c, d
			}
		}
		if labels[i] != best {
			labels[i] = best
			changed = true
		}
	}
	return changed
}

// update recomputes each centroid as the mean of its members. Centroids with
// no members are left untouched.
func update(vectors, centroids [][]float64, labels []int) {
	dim := len(centroids[0])
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for i, vec := range vectors {
		c := labels[i]
		if sums[c] == nil {
			sums[c] = make([]float64, dim)
		}
		for j, v := range vec {
			sums[c][j] += v
		}
		counts[c]++
	}
	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		for j := range centroids[c] {
			centroids[c][j] = sums[c][j] / float64(counts[c])
		}
	}
}

func group(labels []int, k int) []Cluster {
	members := make([][]int, k)
	for i, c := range labels {
		members[c] = append(members[c], i)
	}
	var out []Cluster
	for id, m := range members {
		if len(m) == 0 {
			continue
		}
		out = append(out, Cluster{ID: id, Members: m})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Members) > len(out[j].Members)
	})
	return out
}

// SquaredDistance is the squared Euclidean distance between a and b, which
// must have the same length.
func SquaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
