package domain

import "math"

const (
	MinScore   = 0
	MaxScore   = 100
	MaxRawGain = 10.0
	// MinTaper keeps a trickle of progress near mastery.
	MinTaper = 0.1
)

func ClampScore(v int) int {
	switch {
	case v < MinScore:
		return MinScore
	case v > MaxScore:
		return MaxScore
	default:
		return v
	}
}

func ClampQuality(v int) int {
	return ClampScore(v)
}

func ClampDuration(minutes int) int {
	if minutes < 0 {
		return 0
	}
	return minutes
}

// ScoreDelta is round(min(d*0.5, 10) * q/100 * max(0.1, 1 - score/200)).
func ScoreDelta(durationMinutes, quality, currentScore int) int {
	raw := math.Min(float64(ClampDuration(durationMinutes))*0.5, MaxRawGain)
	taper := math.Max(MinTaper, 1-float64(ClampScore(currentScore))/200)
	return int(math.Round(raw * float64(ClampQuality(quality)) / 100 * taper))
}
