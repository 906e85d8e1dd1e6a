// Package validation checks the inputs handed to the simulation through its
// external interface before they reach the tick.
package validation

import (
	"errors"
	"fmt"
	"html"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/opd-ai/go-morph/pkg/physics"
)

// Input limits
const (
	MaxPlayerNameLen = 32
	MaxCoordinate    = 1e7
	MaxDamageAmount  = 1e6
	MaxMass          = 1e4
)

// Sentinel errors, wrapped with details by the validators
var (
	ErrInvalidName      = errors.New("invalid player name")
	ErrInvalidTarget    = errors.New("invalid target")
	ErrInvalidAmount    = errors.New("invalid damage amount")
	ErrInvalidLevel     = errors.New("invalid module level")
	ErrInvalidTimeScale = errors.New("invalid time scale")
	ErrInvalidMass      = errors.New("invalid mass")
)

// Allow alphanumeric, spaces, hyphens, underscores, and basic punctuation for player names
var validPlayerNameChars = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.<>()]+$`)

// ValidatePlayerName validates and sanitizes a player name
func ValidatePlayerName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: cannot be empty", ErrInvalidName)
	}

	if len(name) > MaxPlayerNameLen {
		return "", fmt.Errorf("%w: too long: %d characters (max %d)", ErrInvalidName, len(name), MaxPlayerNameLen)
	}

	if !utf8.ValidString(name) {
		return "", fmt.Errorf("%w: contains invalid UTF-8 characters", ErrInvalidName)
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: cannot be only whitespace", ErrInvalidName)
	}

	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("%w: contains control characters", ErrInvalidName)
		}
	}

	if !validPlayerNameChars.MatchString(trimmed) {
		return "", fmt.Errorf("%w: contains invalid characters (only alphanumeric, spaces, hyphens, underscores, and basic punctuation allowed)", ErrInvalidName)
	}

	// Names end up in HUD labels and JSON logs
	return html.EscapeString(trimmed), nil
}

// ValidateTarget checks that a movement target is a finite point within
// MaxCoordinate of the origin on every axis
func ValidateTarget(target physics.Vector3) error {
	for _, c := range [...]float64{target.X, target.Y, target.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: %v is not finite", ErrInvalidTarget, target)
		}
		if math.Abs(c) > MaxCoordinate {
			return fmt.Errorf("%w: %v is out of range (max %g)", ErrInvalidTarget, target, MaxCoordinate)
		}
	}
	return nil
}

// ValidateDamage validates a TakeDamage amount
func ValidateDamage(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: %v is not finite", ErrInvalidAmount, amount)
	}
	if amount < 0 {
		return fmt.Errorf("%w: cannot be negative: %v", ErrInvalidAmount, amount)
	}
	if amount > MaxDamageAmount {
		return fmt.Errorf("%w: too large: %v (max %g)", ErrInvalidAmount, amount, MaxDamageAmount)
	}
	return nil
}

// ValidateModuleLevel checks level against [0, maxLevel]. maxLevel <= 0
// means unbounded.
func ValidateModuleLevel(level, maxLevel int) error {
	if level < 0 {
		return fmt.Errorf("%w: cannot be negative: %d", ErrInvalidLevel, level)
	}
	if maxLevel > 0 && level > maxLevel {
		return fmt.Errorf("%w: %d exceeds max level %d", ErrInvalidLevel, level, maxLevel)
	}
	return nil
}

// ValidateTimeScale checks scale against [min, max]
func ValidateTimeScale(scale, min, max float64) error {
	if math.IsNaN(scale) || scale <= 0 {
		return fmt.Errorf("%w: must be positive: %v", ErrInvalidTimeScale, scale)
	}
	if scale < min || scale > max {
		return fmt.Errorf("%w: %v outside [%g, %g]", ErrInvalidTimeScale, scale, min, max)
	}
	return nil
}

// ValidateMass validates the mass of a ship to spawn
func ValidateMass(mass float64) error {
	if math.IsNaN(mass) || mass <= 0 {
		return fmt.Errorf("%w: must be positive: %v", ErrInvalidMass, mass)
	}
	if mass > MaxMass {
		return fmt.Errorf("%w: too large: %v (max %g)", ErrInvalidMass, mass, MaxMass)
	}
	return nil
}
