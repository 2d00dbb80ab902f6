package explorer

import (
	"math"
	"sort"

	"github.com/vamsi260801-bit/nhfs/domain/models"
)

// SummarizeComparison describes the spread of rows, nil when rows is empty.
func SummarizeComparison(rows []models.ComparisonRow) *models.ComparisonStats {
	if len(rows) == 0 {
		return nil
	}

	sorted := make([]float64, len(rows))
	sum := 0.0
	for i, row := range rows {
		sorted[i] = row.Value
		sum += row.Value
	}
	sort.Float64s(sorted)

	var median float64
	if len(sorted)%2 == 0 {
		median = (sorted[len(sorted)/2-1] + sorted[len(sorted)/2]) / 2
	} else {
		median = sorted[len(sorted)/2]
	}

	q1 := calculateQuantile(sorted, 0.25)
	q3 := calculateQuantile(sorted, 0.75)
	iqr := q3 - q1

	outliers := make([]string, 0)
	lowerBound := q1 - 1.5*iqr
	upperBound := q3 + 1.5*iqr
	for _, row := range rows {
		if row.Value < lowerBound || row.Value > upperBound {
			outliers = append(outliers, row.Region)
		}
	}

	return &models.ComparisonStats{
		Count:    len(rows),
		Average:  roundToTwo(sum / float64(len(rows))),
		Median:   roundToTwo(median),
		Min:      roundToTwo(sorted[0]),
		Max:      roundToTwo(sorted[len(sorted)-1]),
		Q1:       roundToTwo(q1),
		Q3:       roundToTwo(q3),
		IQR:      roundToTwo(iqr),
		Outliers: outliers,
	}
}

// calculateQuantile interpolates linearly between the closest ranks.
func calculateQuantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}

	pos := p * float64(len(sorted)-1)
	floor := math.Floor(pos)
	ceil := math.Ceil(pos)
	if floor == ceil {
		return sorted[int(pos)]
	}

	lower := sorted[int(floor)]
	upper := sorted[int(ceil)]
	return lower + (pos-floor)*(upper-lower)
}

func roundToTwo(num float64) float64 {
	return math.Round(num*100) / 100
}
