// Package api provides the HTTP/JSON and WebSocket interface to the play tree engine.
package api

import "github.com/yourusername/bgplaytree/pkg/engine"

// ============================================================================
// Request Types
// ============================================================================

// PositionSpec names a position either by GNU Backgammon position ID or by
// an explicit slot array. The ID wins when both are given.
type PositionSpec struct {
	Position  string `json:"position,omitempty"`   // Position ID (gnubg format)
	Points    []int  `json:"points,omitempty"`     // Slot array: bar, points, terminal
	Off       int    `json:"off,omitempty"`        // Mover checkers borne off
	OppOff    int    `json:"opp_off,omitempty"`    // Opponent checkers borne off
	InnerZone int    `json:"inner_zone,omitempty"` // Home board size (default 6)
}

// MovesRequest is the request body for enumerating the plays of a roll.
type MovesRequest struct {
	PositionSpec
	Dice      [2]int `json:"dice"`                // Dice in thrown order
	Rules     string `json:"rules,omitempty"`     // Rule set name (default from server config)
	Redundant bool   `json:"redundant,omitempty"` // Include plays flagged redundant
	Distinct  bool   `json:"distinct,omitempty"`  // One play per resulting position
}

// LegalRequest is the request body for checking a single checker move.
type LegalRequest struct {
	PositionSpec
	From  int    `json:"from"`            // Origin slot
	Pip   int    `json:"pip"`             // Distance to move
	Rules string `json:"rules,omitempty"` // Rule set name
}

// SummaryRequest is the request body for play statistics. Without dice every
// distinct roll is summarized.
type SummaryRequest struct {
	PositionSpec
	Dice  *[2]int `json:"dice,omitempty"`
	Rules string  `json:"rules,omitempty"`
}

// ============================================================================
// Response Types
// ============================================================================

// MoveResponse is one checker move.
type MoveResponse struct {
	From    int  `json:"from"`
	To      int  `json:"to"`
	Pip     int  `json:"pip"`
	Hit     bool `json:"hit,omitempty"`
	BearOff bool `json:"bear_off,omitempty"`
}

// PlayResponse is one complete way of playing the roll.
type PlayResponse struct {
	Notation  string         `json:"notation"`           // e.g. "13/16 16/17*"
	Moves     []MoveResponse `json:"moves"`              // Moves in play order
	Position  string         `json:"position,omitempty"` // Resulting position ID, 24 point boards only
	Points    []int          `json:"points"`             // Resulting slot array
	Off       int            `json:"off"`
	PipCount  int            `json:"pip_count"`
	Redundant bool           `json:"redundant,omitempty"`
	Alternate bool           `json:"alternate,omitempty"` // From the minor-die-first tree
	EOG       string         `json:"eog,omitempty"`       // End of game class if the play wins
}

// MovesResponse is the response for play enumeration.
type MovesResponse struct {
	Roll      string         `json:"roll"`
	Rules     string         `json:"rules"`
	Usage     int            `json:"usage"`     // Dice that must be played
	Dice      []engine.Die   `json:"dice"`      // Used means unplayable
	Alternate bool           `json:"alternate"` // Both orderings were kept
	NumPlays  int            `json:"num_plays"` // Terminal plays before filtering
	Plays     []PlayResponse `json:"plays"`
}

// LegalResponse is the response for a single move check.
type LegalResponse struct {
	Legal    bool          `json:"legal"`
	Move     *MoveResponse `json:"move,omitempty"`
	Position string        `json:"position,omitempty"` // Position after the move
	Points   []int         `json:"points,omitempty"`
}

// SummaryResponse is the response for play statistics.
type SummaryResponse struct {
	Rules     string           `json:"rules"`
	Summaries []engine.Summary `json:"summaries"`
}

// ErrorResponse is returned when an error occurs.
type ErrorResponse struct {
	Error   string `json:"error"`             // Error message
	Code    string `json:"code,omitempty"`    // Error code
	Details string `json:"details,omitempty"` // Additional details
}

// HealthResponse is the response for health check.
type HealthResponse struct {
	Status  string      `json:"status"`          // "ok" or "error"
	Version string      `json:"version"`         // Server version
	Rules   []string    `json:"rules"`           // Available rule sets
	Pool    *PoolStats  `json:"pool,omitempty"`  // Worker pool statistics
	Cache   *CacheStats `json:"cache,omitempty"` // Tree cache statistics
}

// CacheStats reports tree cache usage.
type CacheStats struct {
	Lookups uint64  `json:"lookups"`
	Hits    uint64  `json:"hits"`
	HitRate float64 `json:"hit_rate"` // Percentage
}

// ============================================================================
// Helper Functions
// ============================================================================

func moveToResponse(m engine.Move) MoveResponse {
	return MoveResponse{From: m.From, To: m.To, Pip: m.Pip, Hit: m.Hit, BearOff: m.BearOff}
}

// PlayToResponse converts an engine play to its wire form.
func PlayToResponse(p engine.Play) PlayResponse {
	moves := make([]MoveResponse, len(p.Moves))
	for i, m := range p.Moves {
		moves[i] = moveToResponse(m)
	}
	resp := PlayResponse{
		Notation:  p.String(),
		Moves:     moves,
		Points:    p.Position.Points(),
		Off:       p.Position.Off(),
		PipCount:  p.Position.PipCount(),
		Redundant: p.Redundant,
		Alternate: p.Alternate,
	}
	if id, err := p.Position.ID(); err == nil {
		resp.Position = id
	}
	if p.EOG != engine.NotEnded {
		resp.EOG = p.EOG.String()
	}
	return resp
}
