package playerclass

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultJumps is the jump allowance of a class that declares none:
// one ground jump plus one air jump.
const DefaultJumps = 2

// Emote is a facial expression name shown on the character.
type Emote string

const (
	EmoteNormal   Emote = "normal"
	EmotePain     Emote = "pain"
	EmoteHappy    Emote = "happy"
	EmoteSurprise Emote = "surprise"
	EmoteAngry    Emote = "angry"
	EmoteBlink    Emote = "blink"
)

// Definition is the static, data-driven part of a class, loaded from YAML.
// Behavior that cannot be expressed as data lives in the variant tables.
type Definition struct {
	Class        string  `yaml:"class"`
	Name         string  `yaml:"name"`
	Skin         string  `yaml:"skin"`
	Jumps        *int    `yaml:"jumps"` // nil = DefaultJumps
	CanDie       *bool   `yaml:"can_die"`
	CanBeHit     *bool   `yaml:"can_be_hit"`
	CanUnfreeze  *bool   `yaml:"can_be_unfreezed"`
	DefaultEmote Emote   `yaml:"default_emote"`
	GhoulPercent float64 `yaml:"ghoul_percent"`

	kind Kind
}

// Kind returns the parsed class kind.
func (d *Definition) Kind() Kind { return d.kind }

// jumps follows the DDNet convention: -1 allows only a ground jump, 0 no
// jump at all, n a ground jump plus n-1 air jumps.
func (d *Definition) jumps() int {
	if d.Jumps == nil {
		return DefaultJumps
	}
	return *d.Jumps
}

func (d *Definition) emote() Emote {
	if d.DefaultEmote == "" {
		return EmoteNormal
	}
	return d.DefaultEmote
}

func flag(v *bool) bool { return v == nil || *v }

// Catalog maps every kind to its Definition.
type Catalog struct {
	defs map[Kind]*Definition
}

// NewCatalog returns a Catalog holding the built-in definition of every kind.
//
// Postcondition: Get(k) succeeds for every k in Kinds().
func NewCatalog() *Catalog {
	c := &Catalog{defs: make(map[Kind]*Definition, numKinds)}
	for _, k := range Kinds() {
		c.defs[k] = &Definition{Class: k.String(), Name: strings.ToUpper(k.String()[:1]) + k.String()[1:], Skin: "default", kind: k}
	}
	return c
}

// Register replaces the definition for its kind.
//
// Precondition: def must not be nil.
func (c *Catalog) Register(def *Definition) error {
	k, err := ParseKind(def.Class)
	if err != nil {
		return err
	}
	if def.Jumps != nil && *def.Jumps < -1 {
		return fmt.Errorf("class %q: jumps must be >= -1, got %d", def.Class, *def.Jumps)
	}
	if def.GhoulPercent < 0 || def.GhoulPercent > 1 {
		return fmt.Errorf("class %q: ghoul_percent must be in [0, 1], got %v", def.Class, def.GhoulPercent)
	}
	def.kind = k
	c.defs[k] = def
	return nil
}

// Get returns the definition for k.
func (c *Catalog) Get(k Kind) (*Definition, bool) {
	d, ok := c.defs[k]
	return d, ok
}

// LoadCatalog reads every *.yaml file in dir over the built-in definitions.
// Unknown YAML fields are rejected.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a Catalog covering every kind, or a non-nil error.
func LoadCatalog(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading class dir %q: %w", dir, err)
	}
	c := NewCatalog()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Definition
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := c.Register(&def); err != nil {
			return nil, fmt.Errorf("registering %q: %w", path, err)
		}
	}
	return c, nil
}
