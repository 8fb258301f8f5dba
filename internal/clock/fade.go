package clock

import "fmt"

// FadePolicy selects how the display blends each hand between the LED
// it is leaving and the one it is approaching.
type FadePolicy int

const (
	// FadeOff shows one crisp LED per hand.
	FadeOff FadePolicy = iota
	// FadeClassic cross-fades during the second before each hand
	// movement, with the hour hand moving on the hour.
	FadeClassic
	// FadeClassicAdvance is FadeClassic with the hour hand advancing
	// past the half hour instead of on the hour.
	FadeClassicAdvance
	// FadeContinuous blends each hand linearly across its whole step
	// interval, so the display never sits still.
	FadeContinuous
	// FadeContinuousLog is FadeContinuous through a perceptual
	// brightness curve.
	FadeContinuousLog

	numFadePolicies = 5
)

func (p FadePolicy) String() string {
	switch p {
	case FadeOff:
		return "off"
	case FadeClassic:
		return "classic"
	case FadeClassicAdvance:
		return "classic-advance"
	case FadeContinuous:
		return "continuous"
	case FadeContinuousLog:
		return "continuous-log"
	}
	return "unknown"
}

// ParseFadePolicy maps a settings file name back to a policy.
func ParseFadePolicy(s string) (FadePolicy, error) {
	for p := FadePolicy(0); p < numFadePolicies; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return FadeOff, fmt.Errorf("unknown fade policy %q", s)
}

// fadeWeights computes the blend for each ring at ms milliseconds into
// the given second of the half day.
//
// The classic policies ramp only during the second before a hand moves:
// the second hand steps every two seconds so its ramp runs through each
// odd second, the minute hand steps as each odd minute ends so its ramp
// runs through second 59 of odd minutes, and the hour ramp runs through
// second 59 of the minute before the hour hand steps. The continuous
// policies spread the blend across the hand's whole step interval
// instead.
func fadeWeights(p FadePolicy, seconds, ms int) (hour, minute, second Weights) {
	crisp := Weights{Current: WeightMax}
	hour, minute, second = crisp, crisp, crisp

	switch p {
	case FadeClassic, FadeClassicAdvance:
		sec := seconds % 60
		min := (seconds / 60) % 60
		if sec%2 == 0 {
			return hour, minute, second
		}
		second = rampWeights(ms)
		if sec != 59 {
			return hour, minute, second
		}
		if min%2 == 1 {
			minute = rampWeights(ms)
		}
		hourStep := 59
		if p == FadeClassicAdvance {
			hourStep = 30
		}
		if min == hourStep {
			hour = rampWeights(ms)
		}
	case FadeContinuous, FadeContinuousLog:
		log := p == FadeContinuousLog
		second = contWeights(log, (seconds%2)*1000+ms, 2000)
		minute = contWeights(log, seconds%120, 120)
		hour = contWeights(log, (seconds%3600)/60, 60)
	}
	return hour, minute, second
}

func rampWeights(ms int) Weights {
	next := uint8(ms * WeightMax / 1000)
	return Weights{Current: WeightMax - next, Next: next}
}

func contWeights(log bool, elapsed, window int) Weights {
	if log {
		i := elapsed * 255 / window
		return Weights{Current: gamma[255-i], Next: gamma[i]}
	}
	return Weights{
		Current: uint8((window - elapsed) * WeightMax / window),
		Next:    uint8(elapsed * WeightMax / window),
	}
}

// gamma maps a linear 0..255 fade progress onto the 0..63 weight scale
// with a power curve, so logarithmic fades track perceived rather than
// electrical brightness.
var gamma = [256]uint8{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 2, 2,
	2, 2, 2, 2, 2, 3, 3, 3, 3, 3, 3, 3, 3, 3, 4, 4,
	4, 4, 4, 4, 4, 4, 5, 5, 5, 5, 5, 5, 5, 6, 6, 6,
	6, 6, 6, 6, 7, 7, 7, 7, 7, 8, 8, 8, 8, 8, 8, 9,
	9, 9, 9, 9, 10, 10, 10, 10, 11, 11, 11, 11, 12, 12, 12, 12,
	12, 13, 13, 13, 14, 14, 14, 14, 15, 15, 15, 15, 16, 16, 16, 17,
	17, 17, 18, 18, 18, 18, 19, 19, 19, 20, 20, 20, 21, 21, 21, 22,
	22, 23, 23, 23, 24, 24, 24, 25, 25, 26, 26, 26, 27, 27, 28, 28,
	28, 29, 29, 30, 30, 31, 31, 31, 32, 32, 33, 33, 34, 34, 35, 35,
	36, 36, 37, 37, 38, 38, 39, 39, 40, 40, 41, 41, 42, 42, 43, 43,
	44, 45, 45, 46, 46, 47, 47, 48, 49, 49, 50, 50, 51, 52, 52, 53,
	53, 54, 55, 55, 56, 57, 57, 58, 59, 59, 60, 61, 61, 62, 63, 63,
}
