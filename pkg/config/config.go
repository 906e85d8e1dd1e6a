// pkg/config/config.go
package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/viper"

	"github.com/opd-ai/go-morph/pkg/behavior/steering"
	"github.com/opd-ai/go-morph/pkg/entity"
	"github.com/opd-ai/go-morph/pkg/module"
	"github.com/opd-ai/go-morph/pkg/validation"
)

// EnvPrefix prefixes the environment variables that override config keys,
// e.g. MORPH_SIMULATION_TIMESCALE=2
const EnvPrefix = "MORPH"

// Render backends
const (
	BackendTerminal = "terminal"
	BackendEngo     = "engo"
	BackendHeadless = "headless"
)

// ErrInvalidConfig is returned when a configuration fails validation
var ErrInvalidConfig = errors.New("invalid configuration")

//go:embed schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("morph-config.schema.json", schemaJSON)

// Config contains the configuration of a simulation run
type Config struct {
	World      WorldConfig      `json:"world" mapstructure:"world"`
	Simulation SimulationConfig `json:"simulation" mapstructure:"simulation"`
	Ship       ShipConfig       `json:"ship" mapstructure:"ship"`
	Propulsor  PropulsorConfig  `json:"propulsor" mapstructure:"propulsor"`
	Seek       SeekConfig       `json:"seek" mapstructure:"seek"`
	Wander     WanderConfig     `json:"wander" mapstructure:"wander"`
	Energy     EnergyConfig     `json:"energy" mapstructure:"energy"`
	Particles  ParticleConfig   `json:"particles" mapstructure:"particles"`
	Gravity    []GravityWell    `json:"gravity" mapstructure:"gravity"`
	Render     RenderConfig     `json:"render" mapstructure:"render"`
	Fleet      []ShipSpawn      `json:"fleet" mapstructure:"fleet"`
}

// WorldConfig contains the world geometry
type WorldConfig struct {
	Size float64 `json:"size" mapstructure:"size"`
	// Wrap teleports ships leaving the world square to the opposite edge
	Wrap          bool `json:"wrap" mapstructure:"wrap"`
	IndexCapacity int  `json:"indexCapacity" mapstructure:"indexCapacity"`
}

// SimulationConfig contains the tick driver settings
type SimulationConfig struct {
	TickRate     float64 `json:"tickRate" mapstructure:"tickRate"`
	MaxDeltaTime float64 `json:"maxDeltaTime" mapstructure:"maxDeltaTime"`
	TimeScale    float64 `json:"timeScale" mapstructure:"timeScale"`
	MinTimeScale float64 `json:"minTimeScale" mapstructure:"minTimeScale"`
	MaxTimeScale float64 `json:"maxTimeScale" mapstructure:"maxTimeScale"`
	Seed         uint64  `json:"seed" mapstructure:"seed"`
}

// ShipConfig contains per-ship settings
type ShipConfig struct {
	Mass            float64 `json:"mass" mapstructure:"mass"`
	InitialEnergy   float64 `json:"initialEnergy" mapstructure:"initialEnergy"`
	MaxEnergy       float64 `json:"maxEnergy" mapstructure:"maxEnergy"`
	MaxDamage       float64 `json:"maxDamage" mapstructure:"maxDamage"`
	TurnRatePerMass float64 `json:"turnRatePerMass" mapstructure:"turnRatePerMass"`
	TrailInterval   float64 `json:"trailInterval" mapstructure:"trailInterval"`
	RadiusPerMass   float64 `json:"radiusPerMass" mapstructure:"radiusPerMass"`
}

// PropulsorConfig contains the simple propulsor module settings
type PropulsorConfig struct {
	MaxForce               float64 `json:"maxForce" mapstructure:"maxForce"`
	MaxForceFactorPerLevel float64 `json:"maxForceFactorPerLevel" mapstructure:"maxForceFactorPerLevel"`
	MaxSpeed               float64 `json:"maxSpeed" mapstructure:"maxSpeed"`
	MaxSpeedFactorPerLevel float64 `json:"maxSpeedFactorPerLevel" mapstructure:"maxSpeedFactorPerLevel"`
	StackingPenalty        float64 `json:"stackingPenalty" mapstructure:"stackingPenalty"`
	XPPerLevel             float64 `json:"xpPerLevel" mapstructure:"xpPerLevel"`
	MaxLevel               int     `json:"maxLevel" mapstructure:"maxLevel"`
}

// SeekConfig contains the seek/arrive settings
type SeekConfig struct {
	SlowingRadius    float64 `json:"slowingRadius" mapstructure:"slowingRadius"`
	ArrivalTolerance float64 `json:"arrivalTolerance" mapstructure:"arrivalTolerance"`
	StopSpeed        float64 `json:"stopSpeed" mapstructure:"stopSpeed"`
}

// WanderConfig contains the wander settings
type WanderConfig struct {
	FocusDistance float64 `json:"focusDistance" mapstructure:"focusDistance"`
	Radius        float64 `json:"radius" mapstructure:"radius"`
	Jitter        float64 `json:"jitter" mapstructure:"jitter"`
}

// EnergyConfig contains the energy economy
type EnergyConfig struct {
	PerForceUnit   float64 `json:"perForceUnit" mapstructure:"perForceUnit"`
	XPPerEnergy    float64 `json:"xpPerEnergy" mapstructure:"xpPerEnergy"`
	StarsPerSecond float64 `json:"starsPerSecond" mapstructure:"starsPerSecond"`
}

// ParticleConfig contains particle engine settings
type ParticleConfig struct {
	Capacity int `json:"capacity" mapstructure:"capacity"`
}

// GravityWell describes a fixed attractor applied to every ship
type GravityWell struct {
	X           float64 `json:"x" mapstructure:"x"`
	Y           float64 `json:"y" mapstructure:"y"`
	Strength    float64 `json:"strength" mapstructure:"strength"`
	MinDistance float64 `json:"minDistance" mapstructure:"minDistance"`
	MaxForce    float64 `json:"maxForce" mapstructure:"maxForce"`
	Range       float64 `json:"range" mapstructure:"range"`
}

// RenderConfig contains front end settings
type RenderConfig struct {
	Backend    string  `json:"backend" mapstructure:"backend"`
	AssetDir   string  `json:"assetDir" mapstructure:"assetDir"`
	Width      int     `json:"width" mapstructure:"width"`
	Height     int     `json:"height" mapstructure:"height"`
	Zoom       float64 `json:"zoom" mapstructure:"zoom"`
	Debug      bool    `json:"debug" mapstructure:"debug"`
	ShowTrails bool    `json:"showTrails" mapstructure:"showTrails"`
}

// ShipSpawn describes a ship created when the world starts
type ShipSpawn struct {
	Player     string  `json:"player" mapstructure:"player"`
	PlayerType string  `json:"playerType" mapstructure:"playerType"`
	X          float64 `json:"x" mapstructure:"x"`
	Y          float64 `json:"y" mapstructure:"y"`
	Heading    float64 `json:"heading" mapstructure:"heading"`
	Mass       float64 `json:"mass" mapstructure:"mass"`
	Propulsors int     `json:"propulsors" mapstructure:"propulsors"`
	Wander     bool    `json:"wander" mapstructure:"wander"`
}

// Load builds a configuration from the defaults, the optional file at path
// (JSON, YAML or TOML, picked by extension) and MORPH_* environment
// variables, in increasing priority. The result is validated.
func Load(path string) (*Config, error) {
	v := viper.New()
	if err := registerDefaults(v, DefaultConfig()); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// registerDefaults flattens cfg into dotted viper keys so that every key is
// known to AutomaticEnv
func registerDefaults(v *viper.Viper, cfg *Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal defaults: %w", err)
	}
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("failed to decode defaults: %w", err)
	}
	setDefaults(v, "", tree)
	return nil
}

func setDefaults(v *viper.Viper, prefix string, tree map[string]any) {
	for key, value := range tree {
		if prefix != "" {
			key = prefix + "." + key
		}
		if sub, ok := value.(map[string]any); ok {
			setDefaults(v, key, sub)
			continue
		}
		v.SetDefault(key, value)
	}
}

// Validate checks the configuration against the embedded JSON schema and the
// cross-field rules the schema cannot express
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	sim := c.Simulation
	if sim.MinTimeScale > sim.MaxTimeScale {
		return fmt.Errorf("%w: minTimeScale %v above maxTimeScale %v", ErrInvalidConfig, sim.MinTimeScale, sim.MaxTimeScale)
	}
	if err := validation.ValidateTimeScale(sim.TimeScale, sim.MinTimeScale, sim.MaxTimeScale); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	for i, spawn := range c.Fleet {
		if _, err := validation.ValidatePlayerName(spawn.Player); err != nil {
			return fmt.Errorf("%w: fleet[%d]: %w", ErrInvalidConfig, i, err)
		}
		if _, err := entity.PlayerTypeFromString(spawn.PlayerType); err != nil {
			return fmt.Errorf("%w: fleet[%d]: %w", ErrInvalidConfig, i, err)
		}
	}
	return nil
}

// Save writes the configuration to path as indented JSON
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ShipConfig converts the ship related sections into the tunables used by
// entity.NewShip
func (c *Config) ShipConfig() entity.ShipConfig {
	return entity.ShipConfig{
		InitialEnergy:        c.Ship.InitialEnergy,
		MaxEnergy:            c.Ship.MaxEnergy,
		MaxDamage:            c.Ship.MaxDamage,
		TurnRatePerMass:      c.Ship.TurnRatePerMass,
		TrailInterval:        c.Ship.TrailInterval,
		RadiusPerMass:        c.Ship.RadiusPerMass,
		StarsEnergyPerSecond: c.Energy.StarsPerSecond,
		Propulsor: module.PropulsorParams{
			MaxForce:               c.Propulsor.MaxForce,
			MaxForceFactorPerLevel: c.Propulsor.MaxForceFactorPerLevel,
			MaxSpeed:               c.Propulsor.MaxSpeed,
			MaxSpeedFactorPerLevel: c.Propulsor.MaxSpeedFactorPerLevel,
			StackingPenalty:        c.Propulsor.StackingPenalty,
		},
		Progression: module.Progression{
			XPPerLevel: c.Propulsor.XPPerLevel,
			MaxLevel:   c.Propulsor.MaxLevel,
		},
		Seek: steering.SeekConfig{
			SlowingRadius:      c.Seek.SlowingRadius,
			ArrivalTolerance:   c.Seek.ArrivalTolerance,
			StopSpeed:          c.Seek.StopSpeed,
			EnergyPerForceUnit: c.Energy.PerForceUnit,
			XPPerEnergy:        c.Energy.XPPerEnergy,
		},
		Wander: steering.WanderConfig{
			FocusDistance:      c.Wander.FocusDistance,
			Radius:             c.Wander.Radius,
			Jitter:             c.Wander.Jitter,
			EnergyPerForceUnit: c.Energy.PerForceUnit,
			XPPerEnergy:        c.Energy.XPPerEnergy,
		},
	}
}

// EnergyScale is the energy shown as a full gauge: the energy cap when one
// is set, otherwise the initial energy
func (c *Config) EnergyScale() float64 {
	if c.Ship.MaxEnergy > 0 {
		return c.Ship.MaxEnergy
	}
	if c.Ship.InitialEnergy > 0 {
		return c.Ship.InitialEnergy
	}
	return 1
}

// DefaultConfig returns the default simulation configuration
func DefaultConfig() *Config {
	return &Config{
		World: WorldConfig{
			Size:          2000,
			Wrap:          false,
			IndexCapacity: 8,
		},
		Simulation: SimulationConfig{
			TickRate:     60,
			MaxDeltaTime: 0.1,
			TimeScale:    1,
			MinTimeScale: 0.125,
			MaxTimeScale: 8,
			Seed:         1,
		},
		Ship: ShipConfig{
			Mass:            10,
			InitialEnergy:   100,
			MaxEnergy:       0,
			MaxDamage:       10,
			TurnRatePerMass: 1800,
			TrailInterval:   0.05,
			RadiusPerMass:   1.6,
		},
		Propulsor: PropulsorConfig{
			MaxForce:               400,
			MaxForceFactorPerLevel: 1.1,
			MaxSpeed:               100,
			MaxSpeedFactorPerLevel: 1.1,
			StackingPenalty:        0.75,
			XPPerLevel:             100,
			MaxLevel:               10,
		},
		Seek: SeekConfig{
			SlowingRadius:    50,
			ArrivalTolerance: 0.5,
			StopSpeed:        0.1,
		},
		Wander: WanderConfig{
			FocusDistance: 100,
			Radius:        10,
			Jitter:        steering.DefaultJitter,
		},
		Energy: EnergyConfig{
			PerForceUnit:   0.01,
			XPPerEnergy:    1,
			StarsPerSecond: 1,
		},
		Particles: ParticleConfig{
			Capacity: 4096,
		},
		Gravity: []GravityWell{},
		Render: RenderConfig{
			Backend:    BackendTerminal,
			AssetDir:   "assets",
			Width:      1024,
			Height:     768,
			Zoom:       1,
			Debug:      false,
			ShowTrails: true,
		},
		Fleet: []ShipSpawn{
			{
				Player:     "Commander",
				PlayerType: "self",
				X:          0,
				Y:          0,
				Mass:       10,
				Propulsors: 1,
			},
			{
				Player:     "Drifter",
				PlayerType: "neutral",
				X:          200,
				Y:          100,
				Heading:    90,
				Mass:       15,
				Propulsors: 2,
				Wander:     true,
			},
		},
	}
}
