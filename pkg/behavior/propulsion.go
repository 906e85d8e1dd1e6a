package behavior

import (
	"github.com/opd-ai/go-morph/pkg/module"
	"github.com/opd-ai/go-morph/pkg/physics"
)

// Propulsion does the energy bookkeeping shared by Movement behaviors that
// are driven by simple propulsors.
type Propulsion struct {
	host               Host
	energyPerForceUnit float64
	xpPerEnergy        float64
	cost               float64
}

// NewPropulsion creates the helper. energyPerForceUnit is the energy spent
// per unit of force per second; xpPerEnergy converts spent energy into
// propulsor experience.
func NewPropulsion(host Host, energyPerForceUnit, xpPerEnergy float64) *Propulsion {
	return &Propulsion{
		host:               host,
		energyPerForceUnit: energyPerForceUnit,
		xpPerEnergy:        xpPerEnergy,
	}
}

// Charge records the cost of applying force for dt seconds
func (p *Propulsion) Charge(force physics.Vector3, dt float64) {
	p.cost = force.Modulus() * dt * p.energyPerForceUnit
}

// Cost returns the energy recorded by the last Charge
func (p *Propulsion) Cost() float64 {
	return p.cost
}

// ConsumeEnergy takes the recorded cost from the host
func (p *Propulsion) ConsumeEnergy() bool {
	if p.cost <= 0 {
		return true
	}
	return p.host.ConsumeEnergy(p.cost)
}

// RewardModules credits the host's propulsors with experience for the
// energy spent
func (p *Propulsion) RewardModules() {
	if p.cost <= 0 || p.xpPerEnergy <= 0 {
		return
	}
	p.host.RewardModules(module.SimplePropulsor, p.cost*p.xpPerEnergy)
}
