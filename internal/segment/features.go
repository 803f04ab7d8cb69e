package segment

import (
	"fmt"
	"math"

	"adash/internal/analytics"
)

// Feature names a per-customer behavioral measure usable for clustering.
type Feature string

const (
	FeatureSpend      Feature = "spend"
	FeatureQuantity   Feature = "quantity"
	FeatureProducts   Feature = "products"
	FeatureCategories Feature = "categories"
	FeatureFrequency  Feature = "frequency"
)

// Config parameterizes the segmentation run. The feature list is configurable
// because different analytics goals weight behavior differently, but it must
// stay constant across runs within one session.
type Config struct {
	Clusters      int
	Seed          int64
	MaxIterations int
	Features      []Feature
}

// DefaultConfig returns the standard segmentation setup: four clusters over
// the full behavioral feature set, fixed seed for reproducible assignments.
func DefaultConfig() Config {
	return Config{
		Clusters:      4,
		Seed:          42,
		MaxIterations: 100,
		Features: []Feature{
			FeatureSpend,
			FeatureQuantity,
			FeatureProducts,
			FeatureCategories,
			FeatureFrequency,
		},
	}
}

// featureValue extracts one feature from a customer summary. Monetary spend
// crosses from decimal to float here; clustering distance is float math.
func featureValue(c analytics.CustomerActivity, f Feature) (float64, error) {
	switch f {
	case FeatureSpend:
		return c.Spend.InexactFloat64(), nil
	case FeatureQuantity:
		return float64(c.Quantity), nil
	case FeatureProducts:
		return float64(c.DistinctProducts), nil
	case FeatureCategories:
		return float64(c.DistinctCategories), nil
	case FeatureFrequency:
		return float64(c.Transactions), nil
	default:
		return 0, fmt.Errorf("unknown segmentation feature %q", f)
	}
}

// buildMatrix turns customer summaries into a row-per-customer feature matrix.
func buildMatrix(customers []analytics.CustomerActivity, features []Feature) ([][]float64, error) {
	matrix := make([][]float64, len(customers))
	for i, c := range customers {
		row := make([]float64, len(features))
		for j, f := range features {
			v, err := featureValue(c, f)
			if err != nil {
				return nil, err
			}
			row[j] = v
		}
		matrix[i] = row
	}
	return matrix, nil
}

// standardize scales each column to zero mean and unit variance in place.
// Without this, spend (large magnitude) would dominate Euclidean distance
// over the count-based features. Zero-variance columns collapse to all
// zeros instead of dividing by zero.
func standardize(matrix [][]float64) {
	if len(matrix) == 0 {
		return
	}
	cols := len(matrix[0])
	n := float64(len(matrix))

	for j := 0; j < cols; j++ {
		var sum float64
		for i := range matrix {
			sum += matrix[i][j]
		}
		mean := sum / n

		var varSum float64
		for i := range matrix {
			d := matrix[i][j] - mean
			varSum += d * d
		}
		std := math.Sqrt(varSum / n)

		for i := range matrix {
			if std == 0 {
				matrix[i][j] = 0
				continue
			}
			matrix[i][j] = (matrix[i][j] - mean) / std
		}
	}
}
