package engine

import (
	"os"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type scenario struct {
	Name      string      `yaml:"name"`
	Rules     string      `yaml:"rules"`
	Points    map[int]int `yaml:"points"`
	Off       int         `yaml:"off"`
	OppOff    int         `yaml:"opp_off"`
	Roll      []int       `yaml:"roll"`
	Usage     int         `yaml:"usage"`
	Alternate bool        `yaml:"alternate"`
	Plays     int         `yaml:"plays"`
	Canonical []string    `yaml:"canonical"`
	DiceUsed  []bool      `yaml:"dice_used"`
}

func loadScenarios(t *testing.T) []scenario {
	t.Helper()
	data, err := os.ReadFile("testdata/scenarios.yaml")
	require.NoError(t, err)

	var scenarios []scenario
	require.NoError(t, yaml.Unmarshal(data, &scenarios))
	require.NotEmpty(t, scenarios)
	return scenarios
}

// slots builds a 24 point slot array from sparse slot counts.
func slots(counts map[int]int) []int {
	points := make([]int, NumPoints+2)
	for slot, n := range counts {
		points[slot] = n
	}
	return points
}

func TestScenarios(t *testing.T) {
	for _, sc := range loadScenarios(t) {
		t.Run(sc.Name, func(t *testing.T) {
			rules, err := RulesByName(sc.Rules)
			require.NoError(t, err)
			pos, err := NewPosition(slots(sc.Points), sc.Off, sc.OppOff)
			require.NoError(t, err)
			require.Len(t, sc.Roll, 2)
			roll, err := NewRoll(sc.Roll[0], sc.Roll[1])
			require.NoError(t, err)

			root := BuildTree(rules, pos, roll)

			require.Equal(t, sc.Usage, root.Usage(), "usage")
			_, hasAlt := root.Alternate()
			require.Equal(t, sc.Alternate, hasAlt, "alternate tree")

			plays := root.Plays()
			require.Len(t, plays, sc.Plays, "terminal plays")

			canonical := lo.Map(root.CanonicalPlays(), func(p Play, _ int) string { return p.String() })
			require.Equal(t, sc.Canonical, canonical)

			used := lo.Map(root.Dice(), func(d Die, _ int) bool { return d.Used })
			require.Equal(t, sc.DiceUsed, used, "dice used")

			// Redundant plays are flagged, not removed: each one repeats the
			// result of a canonical play.
			keys := lo.SliceToMap(root.CanonicalPlays(), func(p Play) (uint64, bool) { return p.Position.Key(), true })
			for _, p := range plays {
				if p.Redundant {
					require.True(t, keys[p.Position.Key()], "redundant play %s has no canonical twin", p)
				}
			}

			// No two canonical plays share a result.
			require.Len(t, keys, len(canonical))

			// The position the roll started from is never altered.
			require.Equal(t, slots(sc.Points), pos.Points())
		})
	}
}
