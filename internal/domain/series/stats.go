package series

import (
	"math"
	"sort"

	"github.com/okian/brent/internal/domain/model"
	"github.com/shopspring/decimal"
)

const statsPlaces = 2

// Summary holds descriptive statistics of a price sequence, rounded to cents.
type Summary struct {
	Count int             `json:"count"`
	Mean  decimal.Decimal `json:"mean"`
	Std   decimal.Decimal `json:"std"`
	Min   decimal.Decimal `json:"min"`
	P25   decimal.Decimal `json:"p25"`
	P50   decimal.Decimal `json:"p50"`
	P75   decimal.Decimal `json:"p75"`
	Max   decimal.Decimal `json:"max"`
}

// Describe computes count, mean, sample standard deviation, min, quartiles and max.
// Quartiles interpolate linearly between closest ranks. Std is zero below two points.
func Describe(prices []model.PricePoint) Summary {
	n := len(prices)
	if n == 0 {
		return Summary{}
	}

	sorted := make([]decimal.Decimal, n)
	sum := decimal.Zero
	for i, p := range prices {
		sorted[i] = p.Price
		sum = sum.Add(p.Price)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	count := decimal.NewFromInt(int64(n))
	mean := sum.Div(count)

	std := decimal.Zero
	if n > 1 {
		sq := decimal.Zero
		for _, v := range sorted {
			d := v.Sub(mean)
			sq = sq.Add(d.Mul(d))
		}
		variance := sq.Div(decimal.NewFromInt(int64(n - 1)))
		std = decimal.NewFromFloat(math.Sqrt(variance.InexactFloat64()))
	}

	return Summary{
		Count: n,
		Mean:  mean.Round(statsPlaces),
		Std:   std.Round(statsPlaces),
		Min:   sorted[0].Round(statsPlaces),
		P25:   quantile(sorted, 0.25).Round(statsPlaces),
		P50:   quantile(sorted, 0.5).Round(statsPlaces),
		P75:   quantile(sorted, 0.75).Round(statsPlaces),
		Max:   sorted[n-1].Round(statsPlaces),
	}
}

// quantile expects sorted to be ascending and non-empty.
func quantile(sorted []decimal.Decimal, q float64) decimal.Decimal {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := decimal.NewFromFloat(pos - float64(lo))
	return sorted[lo].Add(sorted[hi].Sub(sorted[lo]).Mul(frac))
}
