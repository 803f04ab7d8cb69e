package segment

import (
	"fmt"
	"math"
	"math/rand"

	"adash/internal/analytics"

	"github.com/rs/zerolog/log"
)

// ClusteredCustomer is a customer summary extended with its cluster label.
// Labels are opaque partition identifiers, stable only within a single run.
type ClusteredCustomer struct {
	analytics.CustomerActivity
	Cluster int `json:"cluster"`
}

// ClusterProfile describes one cluster for presentation: its size and the
// mean of each feature in original (unstandardized) units.
type ClusterProfile struct {
	Cluster int                 `json:"cluster"`
	Size    int                 `json:"size"`
	Means   map[Feature]float64 `json:"means"`
}

// Engine assigns customers to behavioral clusters with Lloyd's algorithm
// over standardized features. The seeded RNG makes runs reproducible.
type Engine struct {
	cfg Config
}

// NewEngine validates the configuration and returns a segmentation engine.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Clusters <= 0 {
		return nil, fmt.Errorf("cluster count must be positive, got %d", cfg.Clusters)
	}
	if cfg.MaxIterations <= 0 {
		return nil, fmt.Errorf("iteration cap must be positive, got %d", cfg.MaxIterations)
	}
	if len(cfg.Features) == 0 {
		return nil, fmt.Errorf("at least one segmentation feature is required")
	}
	return &Engine{cfg: cfg}, nil
}

// Assign labels every input customer with exactly one cluster. The number of
// distinct labels never exceeds the configured cluster count; with fewer
// customers than clusters, k is clamped to the customer count. An empty input
// yields an empty result.
func (e *Engine) Assign(customers []analytics.CustomerActivity) ([]ClusteredCustomer, error) {
	if len(customers) == 0 {
		return []ClusteredCustomer{}, nil
	}

	matrix, err := buildMatrix(customers, e.cfg.Features)
	if err != nil {
		return nil, err
	}
	standardize(matrix)

	k := e.cfg.Clusters
	if k > len(customers) {
		k = len(customers)
	}

	labels := lloyd(matrix, k, e.cfg.Seed, e.cfg.MaxIterations)

	clustered := make([]ClusteredCustomer, len(customers))
	for i, c := range customers {
		clustered[i] = ClusteredCustomer{CustomerActivity: c, Cluster: labels[i]}
	}
	return clustered, nil
}

// Profile summarizes each cluster's size and mean feature values so the
// presentation layer can label the partitions.
func (e *Engine) Profile(clustered []ClusteredCustomer) []ClusterProfile {
	byCluster := make(map[int][]ClusteredCustomer)
	maxLabel := -1
	for _, c := range clustered {
		byCluster[c.Cluster] = append(byCluster[c.Cluster], c)
		if c.Cluster > maxLabel {
			maxLabel = c.Cluster
		}
	}

	var profiles []ClusterProfile
	for label := 0; label <= maxLabel; label++ {
		members := byCluster[label]
		if len(members) == 0 {
			continue
		}
		means := make(map[Feature]float64, len(e.cfg.Features))
		for _, f := range e.cfg.Features {
			var sum float64
			for _, m := range members {
				v, err := featureValue(m.CustomerActivity, f)
				if err != nil {
					// Features were validated during Assign; log and skip.
					log.Warn().Err(err).Msg("Skipping feature in cluster profile")
					continue
				}
				sum += v
			}
			means[f] = sum / float64(len(members))
		}
		profiles = append(profiles, ClusterProfile{
			Cluster: label,
			Size:    len(members),
			Means:   means,
		})
	}
	return profiles
}

// lloyd runs standard k-means iteration: assign points to nearest centroid
// under Euclidean distance, recompute centroids, stop at assignment
// stability or the iteration cap.
func lloyd(points [][]float64, k int, seed int64, maxIter int) []int {
	rng := rand.New(rand.NewSource(seed))
	dims := len(points[0])

	// Initialize centroids from k distinct points chosen by the seeded RNG.
	perm := rng.Perm(len(points))
	centroids := make([][]float64, k)
	for i := 0; i < k; i++ {
		centroids[i] = append([]float64(nil), points[perm[i]]...)
	}

	labels := make([]int, len(points))
	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range points {
			nearest := nearestCentroid(p, centroids)
			if nearest != labels[i] {
				labels[i] = nearest
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		// Recompute centroids. A cluster that lost all members keeps its
		// previous centroid so the label space stays fixed.
		sums := make([][]float64, k)
		counts := make([]int, k)
		for i := range sums {
			sums[i] = make([]float64, dims)
		}
		for i, p := range points {
			c := labels[i]
			counts[c]++
			for j, v := range p {
				sums[c][j] += v
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			for j := 0; j < dims; j++ {
				centroids[c][j] = sums[c][j] / float64(counts[c])
			}
		}
	}
	return labels
}

func nearestCentroid(p []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.MaxFloat64
	for c, centroid := range centroids {
		var dist float64
		for j, v := range p {
			d := v - centroid[j]
			dist += d * d
		}
		if dist < bestDist {
			bestDist = dist
			best = c
		}
	}
	return best
}
