package card

import (
	"fmt"
	"math/rand"
	"strconv"
)

// FallbackFill is used when rejection sampling can't find a free color,
// which in practice means hundreds of cards already exist.
const FallbackFill = "#9ca3af"

const maxColorTries = 100

// ColorGenerator draws card fill colors. Channels are sampled in [100,255]
// so fills stay readable over the base map. The rand source is injected so
// tests can be deterministic.
type ColorGenerator struct {
	rnd *rand.Rand
}

func NewColorGenerator(rnd *rand.Rand) *ColorGenerator {
	return &ColorGenerator{rnd: rnd}
}

// Generate returns a fill color not present in used. After maxColorTries
// rejected draws it gives up and returns the neutral fallback.
func (g *ColorGenerator) Generate(used map[string]struct{}) string {
	for i := 0; i < maxColorTries; i++ {
		r := 100 + g.rnd.Intn(156)
		gr := 100 + g.rnd.Intn(156)
		b := 100 + g.rnd.Intn(156)
		c := fmt.Sprintf("#%02x%02x%02x", r, gr, b)
		if _, taken := used[c]; !taken {
			return c
		}
	}
	return FallbackFill
}

// ChooseFill picks the fill for a card id against the existing cards: a
// rebuild keeps the card's current color, a new id draws a fresh one
// avoiding every color already on the map.
func ChooseFill(existing []Card, id string, g *ColorGenerator) string {
	fill := ""
	used := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		if c.CardID == id {
			fill = c.FillColor
			continue
		}
		used[c.FillColor] = struct{}{}
	}
	if fill != "" {
		return fill
	}
	return g.Generate(used)
}

// StrokeFor darkens a fill to 80% per channel for the card outline.
func StrokeFor(fill string) string {
	if len(fill) != 7 || fill[0] != '#' {
		return fill
	}
	out := "#"
	for i := 1; i < 7; i += 2 {
		v, err := strconv.ParseUint(fill[i:i+2], 16, 8)
		if err != nil {
			return fill
		}
		out += fmt.Sprintf("%02x", uint8(float64(v)*0.8))
	}
	return out
}
