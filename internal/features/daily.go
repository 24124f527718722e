package features

import (
	"cloud.google.com/go/civil"
	"gonum.org/v1/gonum/stat"

	"downtimecli/pkg/contracts/domain"
)

// BuildDailyFeatures sorts the daily summary by date and derives pause
// features and the trailing efficiency volatility.
//
// No efficiency loss is derived: pause_ratio already equals 1 - efficiency
// for this data and a second copy would only add a collinear column.
func BuildDailyFeatures(daily []domain.DailyRecord, opts Options) []domain.DailyFeature {
	out := make([]domain.DailyFeature, len(daily))
	for i, d := range daily {
		out[i] = domain.DailyFeature{DailyRecord: d}
	}
	sortByDate(out, func(f *domain.DailyFeature) *civil.Date { return f.Date })

	efficiency := make([]*float64, len(out))
	for i := range out {
		f := &out[i]
		f.PauseRatio = ratio(f.PauseTimeDec, f.MonitoredTimeDec)
		if f.OperationTimeDec != nil && f.PauseTimeDec != nil {
			f.OperationPauseBalance = domain.Ptr(*f.OperationTimeDec - *f.PauseTimeDec)
		}
		efficiency[i] = f.Efficiency
	}

	for i, std := range RollingStd(efficiency, opts.RollingWindow) {
		out[i].EfficiencyRollingStd = std
	}
	return out
}

// RollingStd returns the sample standard deviation (n-1 denominator) of
// each trailing window of size window. Positions before the first full
// window, and windows containing a nil, are nil.
func RollingStd(values []*float64, window int) []*float64 {
	out := make([]*float64, len(values))
	if window < 2 {
		return out
	}

	win := make([]float64, window)
	for i := window - 1; i < len(values); i++ {
		complete := true
		for j, v := range values[i-window+1 : i+1] {
			if v == nil {
				complete = false
				break
			}
			win[j] = *v
		}
		if complete {
			out[i] = domain.Ptr(stat.StdDev(win, nil))
		}
	}
	return out
}
