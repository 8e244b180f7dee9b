package hero

import "time"

// Timing holds every delay and bound used by the choreography.
// The values are tunable; none of them affect the state machine's correctness.
type Timing struct {
	GlitchTick            time.Duration
	GlitchMinIterations   int
	GlitchIterationSpread int // iterations = min + rand[0, spread)
	GlitchIntensity       float64

	DwellBase   time.Duration // hold time after a mode finishes
	DwellJitter time.Duration // extra rand[0, jitter)

	PunchStagger time.Duration
	PunchHold    time.Duration // how long a letter stays emphasised
	PunchTail    time.Duration

	ChaosTick     time.Duration
	ChaosDuration time.Duration
	SettleStagger time.Duration
	SettleTail    time.Duration

	FirstRound   time.Duration // delay between the first pop and round one
	RoundMin     time.Duration
	RoundSpread  time.Duration
	RoundTargets int // max letters highlighted per round
	IdleTimeout  time.Duration
	WinnerDwell  time.Duration
}

// DefaultTiming mirrors the hero section on the live site.
func DefaultTiming() Timing {
	return Timing{
		GlitchTick:            50 * time.Millisecond,
		GlitchMinIterations:   5,
		GlitchIterationSpread: 5,
		GlitchIntensity:       0.7,

		DwellBase:   1500 * time.Millisecond,
		DwellJitter: 1000 * time.Millisecond,

		PunchStagger: 75 * time.Millisecond,
		PunchHold:    300 * time.Millisecond,
		PunchTail:    300 * time.Millisecond,

		ChaosTick:     75 * time.Millisecond,
		ChaosDuration: 1200 * time.Millisecond,
		SettleStagger: 75 * time.Millisecond,
		SettleTail:    100 * time.Millisecond,

		FirstRound:   300 * time.Millisecond,
		RoundMin:     1500 * time.Millisecond,
		RoundSpread:  500 * time.Millisecond,
		RoundTargets: 2,
		IdleTimeout:  6 * time.Second,
		WinnerDwell:  2500 * time.Millisecond,
	}
}

// GlowStyles is the number of pulsing highlight styles a renderer provides.
const GlowStyles = 5

// Palettes for the colour-convergence mode.
var (
	ChaoticPalette = []string{"#FF1493", "#FF8C00", "#ADFF2F", "#00BFFF", "#BA55D3", "#FFD700"}
	WordPalette    = []string{"#ec4899", "#22d3ee", "#a855f7", "#ffffff"}
)

// PunchDwell is the time from entering the punch mode to the next advance.
func (t Timing) PunchDwell(letters int, jitter time.Duration) time.Duration {
	return t.PunchStagger*time.Duration(letters) + t.PunchTail + t.DwellBase + jitter
}

// SettleDwell is the time from the start of the settle phase to the next advance.
func (t Timing) SettleDwell(letters int, jitter time.Duration) time.Duration {
	return t.SettleStagger*time.Duration(letters) + t.SettleTail + t.DwellBase + jitter
}
