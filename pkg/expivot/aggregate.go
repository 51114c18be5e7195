package expivot

import (
	"github.com/montanaflynn/stats"
	"github.com/ukaji3/expivot-go/pkg/expivot/models"
)

// aggregator reduces the non-null values of one pivot cell.
type aggregator func(values []float64) models.Cell

var aggregators = map[models.Aggregation]aggregator{
	models.AggSum:    requireValues(1, stats.Sum),
	models.AggMean:   requireValues(1, stats.Mean),
	models.AggMedian: requireValues(1, stats.Median),
	models.AggMin:    requireValues(1, stats.Min),
	models.AggMax:    requireValues(1, stats.Max),
	models.AggStd:    requireValues(2, stats.StandardDeviationSample),
	models.AggCount:  count,
}

// requireValues wraps a stats function so that inputs shorter than min yield
// the no-data marker instead of an error or a zero.
func requireValues(min int, fn func(stats.Float64Data) (float64, error)) aggregator {
	return func(values []float64) models.Cell {
		if len(values) < min {
			return models.NoData()
		}
		v, err := fn(values)
		if err != nil {
			return models.NoData()
		}
		return models.Cell{Value: v, Valid: true}
	}
}

// count is defined over the empty set.
func count(values []float64) models.Cell {
	return models.Cell{Value: float64(len(values)), Valid: true}
}

// Aggregate applies agg to values. Unknown aggregations yield no data.
func Aggregate(agg models.Aggregation, values []float64) models.Cell {
	fn, ok := aggregators[agg]
	if !ok {
		return models.NoData()
	}
	return fn(values)
}
