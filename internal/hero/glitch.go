package hero

import "math/rand/v2"

// glitchSymbols is the noise alphabet used while scrambling.
const glitchSymbols = `!<>-_\/[]{}—=+*^?#`

// Scramble replaces each non-space rune of text with a random symbol with
// probability intensity. Spaces are never touched.
func Scramble(text string, intensity float64, rng *rand.Rand) string {
	symbols := []rune(glitchSymbols)
	out := []rune(text)
	for i, r := range out {
		if r == ' ' {
			continue
		}
		if rng.Float64() < intensity {
			out[i] = symbols[rng.IntN(len(symbols))]
		}
	}
	return string(out)
}
