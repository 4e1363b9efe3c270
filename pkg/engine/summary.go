package engine

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the plays available for one roll.
type Summary struct {
	Roll      string  `json:"roll"`
	Usage     int     `json:"usage"`     // Dice that must be played
	Plays     int     `json:"plays"`     // Terminal plays in all trees
	Redundant int     `json:"redundant"` // Plays flagged redundant
	Distinct  int     `json:"distinct"`  // Distinct resulting positions
	Endings   int     `json:"endings"`   // Distinct plays that end the game
	PipMean   float64 `json:"pip_mean"`  // Mover pip count over distinct results
	PipStdDev float64 `json:"pip_stddev"`
	PipMin    float64 `json:"pip_min"`
	PipMax    float64 `json:"pip_max"`
}

// Summarize computes play counts and pip statistics for a root.
func Summarize(r RootNode) Summary {
	plays := r.Plays()
	s := Summary{
		Roll:  r.roll.String(),
		Usage: r.Usage(),
		Plays: len(plays),
	}
	for _, p := range plays {
		if p.Redundant {
			s.Redundant++
		}
	}

	distinct := r.DistinctPlays()
	s.Distinct = len(distinct)
	if len(distinct) == 0 {
		return s
	}

	pips := make([]float64, len(distinct))
	for i, p := range distinct {
		pips[i] = float64(p.Position.PipCount())
		if p.EOG != NotEnded {
			s.Endings++
		}
	}
	s.PipMean, s.PipStdDev = stat.MeanStdDev(pips, nil)
	if len(pips) == 1 {
		s.PipStdDev = 0
	}
	s.PipMin = floats.Min(pips)
	s.PipMax = floats.Max(pips)
	return s
}
