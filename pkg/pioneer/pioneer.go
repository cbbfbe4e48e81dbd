// Package pioneer generates the player character: a numbered colonist with a
// rank and three core stats, and the d20 actor built from them.
package pioneer

import (
	"fmt"
	"math/rand/v2"

	"github.com/jwebster45206/d20"
)

const (
	MinStat = 1
	MaxStat = 10

	// FavoredSerialCutoff marks the first pioneers awakened; serials up to
	// and including it are always favored.
	FavoredSerialCutoff = 10
	// MaxSerial is the highest serial a generated pioneer may carry.
	MaxSerial = 4812
)

// Attribute keys used on the d20 actor.
const (
	AttrStrength = "strength"
	AttrVitality = "vitality"
	AttrAgility  = "agility"
)

// Range is an inclusive integer range.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (r Range) Contains(v int) bool { return v >= r.Min && v <= r.Max }

// Stat totals for the two pioneer classes.
var (
	RegularTotal = Range{Min: 12, Max: 18}
	FavoredTotal = Range{Min: 18, Max: 24}
)

type Stats struct {
	Strength int `json:"strength"`
	Vitality int `json:"vitality"`
	Agility  int `json:"agility"`
}

func (s Stats) Total() int { return s.Strength + s.Vitality + s.Agility }

// Rank is a pioneer's ship role. Its focus stat receives the first points
// when stats are distributed.
type Rank struct {
	Title string `json:"title"`
	Focus string `json:"focus"`
}

var Ranks = []Rank{
	{Title: "Engineer", Focus: AttrStrength},
	{Title: "Medic", Focus: AttrVitality},
	{Title: "Navigator", Focus: AttrAgility},
	{Title: "Hydroponicist", Focus: AttrVitality},
	{Title: "Rigger", Focus: AttrStrength},
	{Title: "Scout", Focus: AttrAgility},
}

type Pioneer struct {
	Serial  int   `json:"serial"`
	Rank    Rank  `json:"rank"`
	Stats   Stats `json:"stats"`
	Favored bool  `json:"favored"`
}

// Designation is the pioneer's call sign, e.g. "Pioneer #0042".
func (p Pioneer) Designation() string {
	return fmt.Sprintf("Pioneer #%04d", p.Serial)
}

// MaxHP derives hit points from vitality.
func (p Pioneer) MaxHP() int { return 10 + p.Stats.Vitality }

// AC derives armor class from agility.
func (p Pioneer) AC() int { return 10 + p.Stats.Agility/2 }

// Actor builds the d20 actor for the pioneer.
func (p Pioneer) Actor() (*d20.Actor, error) {
	actor, err := d20.NewActor(fmt.Sprintf("pioneer-%d", p.Serial)).
		WithHP(p.MaxHP()).
		WithAC(p.AC()).
		WithAttributes(map[string]int{
			AttrStrength: p.Stats.Strength,
			AttrVitality: p.Stats.Vitality,
			AttrAgility:  p.Stats.Agility,
		}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build pioneer actor: %w", err)
	}
	return actor, nil
}

// Generator produces pioneers from a random source.
type Generator struct {
	rng     *rand.Rand
	favored map[int]bool
}

// NewGenerator creates a generator. Serials in favored are treated like the
// first ten awakened.
func NewGenerator(rng *rand.Rand, favored []int) *Generator {
	g := &Generator{rng: rng, favored: make(map[int]bool, len(favored))}
	for _, s := range favored {
		g.favored[s] = true
	}
	return g
}

// IsFavored reports whether a serial receives the higher stat total.
func (g *Generator) IsFavored(serial int) bool {
	return (serial >= 1 && serial <= FavoredSerialCutoff) || g.favored[serial]
}

// RandomSerial picks a serial in [1, MaxSerial].
func (g *Generator) RandomSerial() int {
	return g.rng.IntN(MaxSerial) + 1
}

// Generate creates the pioneer for serial. The stat total always falls in
// the class range and every stat in [MinStat, MaxStat].
func (g *Generator) Generate(serial int) Pioneer {
	favored := g.IsFavored(serial)
	target := RegularTotal
	if favored {
		target = FavoredTotal
	}
	rank := Ranks[g.rng.IntN(len(Ranks))]
	total := target.Min + g.rng.IntN(target.Max-target.Min+1)

	return Pioneer{
		Serial:  serial,
		Rank:    rank,
		Stats:   g.distribute(total, rank.Focus),
		Favored: favored,
	}
}

// distribute builds a stat vector summing to total. Each stat starts at
// MinStat; the focus stat takes up to two points first, the rest go one at a
// time to stats with room left.
func (g *Generator) distribute(total int, focus string) Stats {
	vals := [3]int{MinStat, MinStat, MinStat}
	remaining := total - 3*MinStat

	focusIdx := map[string]int{AttrStrength: 0, AttrVitality: 1, AttrAgility: 2}[focus]
	for i := 0; i < 2 && remaining > 0 && vals[focusIdx] < MaxStat; i++ {
		vals[focusIdx]++
		remaining--
	}

	for remaining > 0 {
		open := make([]int, 0, 3)
		for i, v := range vals {
			if v < MaxStat {
				open = append(open, i)
			}
		}
		if len(open) == 0 {
			break
		}
		vals[open[g.rng.IntN(len(open))]]++
		remaining--
	}
	return Stats{Strength: vals[0], Vitality: vals[1], Agility: vals[2]}
}
