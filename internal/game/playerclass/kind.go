package playerclass

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when a class name or kind has no variant.
var ErrUnknownKind = errors.New("playerclass: unknown class kind")

// Kind enumerates the selectable roles. Human kinds sort before KindSmoker,
// infected kinds from KindSmoker on.
type Kind int

const (
	KindNone Kind = iota

	KindMercenary
	KindMedic
	KindHero
	KindEngineer
	KindSoldier
	KindScientist
	KindBiologist
	KindLooper
	KindNinja
	KindSniper

	KindSmoker
	KindBoomer
	KindHunter
	KindBat
	KindGhost
	KindSpider
	KindGhoul
	KindSlug
	KindVoodoo
	KindWitch
	KindUndead

	numKinds
)

var kindNames = [numKinds]string{
	KindNone:      "none",
	KindMercenary: "mercenary",
	KindMedic:     "medic",
	KindHero:      "hero",
	KindEngineer:  "engineer",
	KindSoldier:   "soldier",
	KindScientist: "scientist",
	KindBiologist: "biologist",
	KindLooper:    "looper",
	KindNinja:     "ninja",
	KindSniper:    "sniper",
	KindSmoker:    "smoker",
	KindBoomer:    "boomer",
	KindHunter:    "hunter",
	KindBat:       "bat",
	KindGhost:     "ghost",
	KindSpider:    "spider",
	KindGhoul:     "ghoul",
	KindSlug:      "slug",
	KindVoodoo:    "voodoo",
	KindWitch:     "witch",
	KindUndead:    "undead",
}

// String returns the lower-case class name.
func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "unknown"
	}
	return kindNames[k]
}

// Valid reports whether k is a selectable class (KindNone is not).
func (k Kind) Valid() bool { return k > KindNone && k < numKinds }

// IsInfected reports whether k is an infected role.
func (k Kind) IsInfected() bool { return k >= KindSmoker && k < numKinds }

// IsHuman reports whether k is a human role.
func (k Kind) IsHuman() bool { return k > KindNone && k < KindSmoker }

// IsPoisonSpecialist reports whether poison from a player of this class
// leaves a visible death effect on every cycle.
func (k Kind) IsPoisonSpecialist() bool { return k == KindSlug }

// Kinds returns every selectable kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds-1)
	for k := KindNone + 1; k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind resolves a class name to its Kind.
//
// Postcondition: Returns an error wrapping ErrUnknownKind if name matches no class.
func ParseKind(name string) (Kind, error) {
	for k := KindNone + 1; k < numKinds; k++ {
		if kindNames[k] == name {
			return k, nil
		}
	}
	return KindNone, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}
