package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/loadpulse/loadpulse/core/model"
)

// Rating bands over MAPE, in percent.
const (
	RatingExcellent      = "excellent"
	RatingStrong         = "strong"
	RatingModerate       = "moderate"
	RatingNeedsAttention = "needs-attention"
)

// ForecastAccuracy computes MAE, MAPE and RMSE over the supplied
// (actual, predicted) pairs. Pairs with a zero actual are excluded from
// the MAPE average so it stays defined. An empty input yields zeros with
// an excellent rating.
func ForecastAccuracy(pairs []model.ForecastPair) model.ForecastAccuracy {
	if len(pairs) == 0 {
		return model.ForecastAccuracy{Rating: RatingExcellent}
	}

	absErrs := make([]float64, len(pairs))
	sqErrs := make([]float64, len(pairs))
	var pctErrs []float64
	for i, p := range pairs {
		diff := p.Actual - p.Predicted
		absErrs[i] = math.Abs(diff)
		sqErrs[i] = diff * diff
		if p.Actual != 0 {
			pctErrs = append(pctErrs, math.Abs(diff)/math.Abs(p.Actual)*100)
		}
	}

	acc := model.ForecastAccuracy{
		MAE:  stat.Mean(absErrs, nil),
		RMSE: math.Sqrt(stat.Mean(sqErrs, nil)),
	}
	if len(pctErrs) > 0 {
		acc.MAPE = stat.Mean(pctErrs, nil)
	}
	acc.Rating = rateMAPE(acc.MAPE)
	return acc
}

func rateMAPE(mape float64) string {
	switch {
	case mape < 5:
		return RatingExcellent
	case mape <= 10:
		return RatingStrong
	case mape <= 20:
		return RatingModerate
	}
	return RatingNeedsAttention
}
