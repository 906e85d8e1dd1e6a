package validation

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/opd-ai/go-morph/pkg/physics"
)

func TestValidatePlayerName(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        string
		wantErr     bool
		errContains string
	}{
		{
			name:    "valid simple name",
			input:   "Player1",
			want:    "Player1",
			wantErr: false,
		},
		{
			name:    "valid name with spaces",
			input:   "Player One",
			want:    "Player One",
			wantErr: false,
		},
		{
			name:    "valid name with hyphen",
			input:   "Player-One",
			want:    "Player-One",
			wantErr: false,
		},
		{
			name:    "valid name with underscore",
			input:   "Player_One",
			want:    "Player_One",
			wantErr: false,
		},
		{
			name:    "name with leading/trailing spaces",
			input:   "  Player1  ",
			want:    "Player1",
			wantErr: false,
		},
		{
			name:        "empty name",
			input:       "",
			want:        "",
			wantErr:     true,
			errContains: "cannot be empty",
		},
		{
			name:        "only whitespace",
			input:       "   ",
			want:        "",
			wantErr:     true,
			errContains: "cannot be only whitespace",
		},
		{
			name:        "too long name",
			input:       strings.Repeat("a", MaxPlayerNameLen+1),
			want:        "",
			wantErr:     true,
			errContains: "too long",
		},
		{
			name:        "name with special characters",
			input:       "Player@#$",
			want:        "",
			wantErr:     true,
			errContains: "invalid characters",
		},
		{
			name:        "name with control character",
			input:       "Player\x00One",
			want:        "",
			wantErr:     true,
			errContains: "control characters",
		},
		{
			name:    "HTML entities should be escaped",
			input:   "Player<script>",
			want:    "Player&lt;script&gt;",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidatePlayerName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePlayerName() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil && tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("ValidatePlayerName() error = %v, should contain %q", err, tt.errContains)
			}
			if got != tt.want {
				t.Errorf("ValidatePlayerName() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateTarget(t *testing.T) {
	tests := []struct {
		name    string
		target  physics.Vector3
		wantErr bool
	}{
		{"origin", physics.Vector3{}, false},
		{"negative coordinates", physics.Vector3{X: -100, Y: -2500.5}, false},
		{"at the limit", physics.Vector3{X: MaxCoordinate}, false},
		{"beyond the limit", physics.Vector3{Y: MaxCoordinate * 2}, true},
		{"NaN", physics.Vector3{X: math.NaN()}, true},
		{"infinite z", physics.Vector3{Z: math.Inf(-1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTarget(tt.target)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateTarget() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidTarget) {
				t.Errorf("ValidateTarget() error = %v, want ErrInvalidTarget", err)
			}
		})
	}
}

func TestValidateDamage(t *testing.T) {
	tests := []struct {
		amount  float64
		wantErr bool
	}{
		{0, false},
		{11, false},
		{MaxDamageAmount, false},
		{-1, true},
		{MaxDamageAmount + 1, true},
		{math.Inf(1), true},
		{math.NaN(), true},
	}

	for _, tt := range tests {
		err := ValidateDamage(tt.amount)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateDamage(%v) error = %v, wantErr %v", tt.amount, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("ValidateDamage(%v) error = %v, want ErrInvalidAmount", tt.amount, err)
		}
	}
}

func TestValidateModuleLevel(t *testing.T) {
	tests := []struct {
		level    int
		maxLevel int
		wantErr  bool
	}{
		{0, 10, false},
		{10, 10, false},
		{11, 10, true},
		{-1, 10, true},
		{500, 0, false},
	}

	for _, tt := range tests {
		err := ValidateModuleLevel(tt.level, tt.maxLevel)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateModuleLevel(%d, %d) error = %v, wantErr %v", tt.level, tt.maxLevel, err, tt.wantErr)
		}
	}
}

func TestValidateTimeScale(t *testing.T) {
	tests := []struct {
		scale   float64
		wantErr bool
	}{
		{1, false},
		{0.1, false},
		{10, false},
		{0, true},
		{-2, true},
		{0.05, true},
		{20, true},
		{math.NaN(), true},
	}

	for _, tt := range tests {
		err := ValidateTimeScale(tt.scale, 0.1, 10)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateTimeScale(%v) error = %v, wantErr %v", tt.scale, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidTimeScale) {
			t.Errorf("ValidateTimeScale(%v) error = %v, want ErrInvalidTimeScale", tt.scale, err)
		}
	}
}

func TestValidateMass(t *testing.T) {
	tests := []struct {
		mass    float64
		wantErr bool
	}{
		{10, false},
		{0.001, false},
		{0, true},
		{-5, true},
		{MaxMass * 2, true},
	}

	for _, tt := range tests {
		if err := ValidateMass(tt.mass); (err != nil) != tt.wantErr {
			t.Errorf("ValidateMass(%v) error = %v, wantErr %v", tt.mass, err, tt.wantErr)
		}
	}
}
