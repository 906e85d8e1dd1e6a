package entity

import "fmt"

// OrderKind discriminates ship orders
type OrderKind int

const (
	// TakeDamage adds Amount to the ship's cumulative damage
	TakeDamage OrderKind = iota
	// Die destroys the ship
	Die
)

func (k OrderKind) String() string {
	switch k {
	case TakeDamage:
		return "take_damage"
	case Die:
		return "die"
	default:
		return fmt.Sprintf("order(%d)", int(k))
	}
}

// Order is a deferred state change applied during the ship's order drain
type Order struct {
	Kind   OrderKind
	Amount float64
}

// NewTakeDamage creates a damage order
func NewTakeDamage(amount float64) Order {
	return Order{Kind: TakeDamage, Amount: amount}
}

// NewDie creates a death order
func NewDie() Order {
	return Order{Kind: Die}
}
