package features

// Options tunes the feature builders.
type Options struct {
	// BurstThresholdSec is the largest gap, exclusive, after which an event
	// still counts as part of a burst.
	BurstThresholdSec float64
	// RollingWindow is the number of consecutive daily rows in the
	// efficiency volatility window.
	RollingWindow int
}

// DefaultOptions returns a 300 second burst threshold and a 5 day window.
func DefaultOptions() Options {
	return Options{
		BurstThresholdSec: 300,
		RollingWindow:     5,
	}
}
