package token

import "math"

// Token prices draws in an in-game currency.

type Token struct {
	Name       string `yaml:"name" json:"name"`                 // e.g. "Stellar Jade", "Star Stone"
	PerDraw    int    `yaml:"per_draw" json:"per_draw"`         // tokens per single draw, e.g. 160
	PerTenDraw int    `yaml:"per_ten_draw" json:"per_ten_draw"` // optional; 0 means 10 * PerDraw
}

// TokensForDraws returns how many tokens n draws cost, buying ten-pulls
// where they are priced.
func (t Token) TokensForDraws(n int) int {
	if n <= 0 {
		return 0
	}
	if t.PerTenDraw > 0 && n >= 10 {
		return n/10*t.PerTenDraw + n%10*t.PerDraw
	}
	return n * t.PerDraw
}

// ExpectedTokens prices an average draw count, rounding draws up since
// partial draws can't be bought. NaN or negative averages cost nothing.
func (t Token) ExpectedTokens(avgDraws float64) int {
	if math.IsNaN(avgDraws) || avgDraws <= 0 {
		return 0
	}
	return t.TokensForDraws(int(math.Ceil(avgDraws)))
}
