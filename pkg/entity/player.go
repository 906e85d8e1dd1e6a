package entity

import (
	"fmt"
	"strings"
)

// PlayerType tells who controls a player's ships
type PlayerType int

const (
	Self PlayerType = iota
	AI
	Neutral
)

func (t PlayerType) String() string {
	switch t {
	case Self:
		return "self"
	case AI:
		return "ai"
	case Neutral:
		return "neutral"
	default:
		return "unknown"
	}
}

// PlayerTypeFromString converts a name into a PlayerType
func PlayerTypeFromString(s string) (PlayerType, error) {
	switch strings.ToLower(s) {
	case "self":
		return Self, nil
	case "ai":
		return AI, nil
	case "neutral":
		return Neutral, nil
	default:
		return Self, fmt.Errorf("unknown player type %q", s)
	}
}

// Pilot is the decision hook run for AI-controlled ships at the start of
// every tick, before behaviors run. No strategy is provided.
type Pilot interface {
	Think(s *Ship, deltaTime float64)
}

// Player owns ships. Ships hold a shared reference and never control the
// player's lifetime.
type Player struct {
	Name  string
	Type  PlayerType
	Pilot Pilot
}

// NewPlayer creates a player
func NewPlayer(name string, playerType PlayerType) *Player {
	return &Player{Name: name, Type: playerType}
}
