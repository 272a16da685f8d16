// Package tuning is the read-only source of balance constants consumed by the
// class layer. Values are looked up by stable name on every use, so a reload
// takes effect on the next read.
package tuning

import (
	"fmt"
	"maps"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Stable parameter names.
const (
	PoisonDamage           = "inf_poison_damage"
	PoisonDuration         = "inf_poison_duration"
	SlimePoisonDamage      = "inf_slime_poison_damage"
	LooperBarrierLifeSpan  = "inf_looper_barrier_life_span"
	LooperWallLimit        = "inf_looper_wall_limit"
	SlowMotionWallDuration = "inf_slow_motion_wall_duration"
	SlowMotionPercent      = "inf_slow_motion_percent"
	BatAirjumpLimit        = "inf_bat_airjump_limit"
	SmokerHookDamage       = "inf_smoker_hook_damage"
	VoodooAliveTime        = "inf_voodoo_alive_time"
	HealingDisabledTime    = "inf_healing_disabled_time"
	AmmoRegenPrefix        = "inf_ammo_regen_"
	MaxAmmoPrefix          = "inf_max_ammo_"
)

// defaults mirrors the stock server configuration.
var defaults = map[string]float64{
	PoisonDamage:           8,
	PoisonDuration:         4000,
	SlimePoisonDamage:      5,
	LooperBarrierLifeSpan:  59,
	LooperWallLimit:        1,
	SlowMotionWallDuration: 30,
	SlowMotionPercent:      65,
	BatAirjumpLimit:        10000,
	SmokerHookDamage:       3,
	VoodooAliveTime:        550,
	HealingDisabledTime:    2,

	AmmoRegenPrefix + "hammer":  0,
	AmmoRegenPrefix + "gun":     125,
	AmmoRegenPrefix + "shotgun": 750,
	AmmoRegenPrefix + "grenade": 1000,
	AmmoRegenPrefix + "laser":   1200,
	AmmoRegenPrefix + "ninja":   0,
	MaxAmmoPrefix + "hammer":    -1,
	MaxAmmoPrefix + "gun":       10,
	MaxAmmoPrefix + "shotgun":   10,
	MaxAmmoPrefix + "grenade":   10,
	MaxAmmoPrefix + "laser":     10,
	MaxAmmoPrefix + "ninja":     -1,
}

// Defaults returns a copy of the built-in parameter values.
func Defaults() map[string]float64 {
	return maps.Clone(defaults)
}

// Params is a snapshot-swapping parameter store. Reads are lock-free; each
// reload or override publishes a new immutable snapshot.
//
// Params is safe for concurrent use.
type Params struct {
	values atomic.Pointer[map[string]float64]
	mu     sync.Mutex // serialises writers
	v      *viper.Viper
	logger *zap.Logger
}

// New creates Params from the defaults overlaid with overrides.
//
// Postcondition: Every default name resolves; override names are lower-cased.
func New(overrides map[string]float64) *Params {
	p := &Params{logger: zap.NewNop()}
	snap := Defaults()
	for k, val := range overrides {
		snap[strings.ToLower(k)] = val
	}
	p.values.Store(&snap)
	return p
}

// Load reads a flat YAML file of name: value pairs over the defaults.
//
// Precondition: path must name a readable YAML file; logger must be non-nil.
// Postcondition: Returns populated Params or a non-nil error.
func Load(path string, logger *zap.Logger) (*Params, error) {
	v := viper.New()
	v.SetConfigFile(path)
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading tuning file: %w", err)
	}
	p := &Params{v: v, logger: logger}
	snap, err := snapshot(v)
	if err != nil {
		return nil, err
	}
	p.values.Store(&snap)
	return p, nil
}

// Watch re-reads the tuning file whenever it changes on disk.
//
// Precondition: p must have been created by Load.
func (p *Params) Watch() {
	if p.v == nil {
		return
	}
	p.v.OnConfigChange(func(e fsnotify.Event) {
		p.mu.Lock()
		defer p.mu.Unlock()
		snap, err := snapshot(p.v)
		if err != nil {
			p.logger.Warn("tuning reload failed", zap.String("file", e.Name), zap.Error(err))
			return
		}
		p.values.Store(&snap)
		p.logger.Info("tuning reloaded", zap.String("file", e.Name), zap.Int("params", len(snap)))
	})
	p.v.WatchConfig()
}

// snapshot converts every key to a number. Booleans become 0 or 1; strings
// must parse as numbers.
func snapshot(v *viper.Viper) (map[string]float64, error) {
	snap := make(map[string]float64, len(defaults))
	for _, key := range v.AllKeys() {
		switch raw := v.Get(key).(type) {
		case int, int64, float64, bool:
			snap[key] = v.GetFloat64(key)
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return nil, fmt.Errorf("tuning %q: %q is not a number", key, raw)
			}
			snap[key] = f
		default:
			return nil, fmt.Errorf("tuning %q: unsupported value %v", key, raw)
		}
	}
	return snap, nil
}

// Override publishes a new snapshot with name set to value.
func (p *Params) Override(name string, value float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	snap := maps.Clone(*p.values.Load())
	snap[strings.ToLower(name)] = value
	p.values.Store(&snap)
}

// Lookup returns the current value of name.
//
// Postcondition: Returns (0, false) for unknown names.
func (p *Params) Lookup(name string) (float64, bool) {
	val, ok := (*p.values.Load())[name]
	return val, ok
}

// Float returns the current value of name, or 0 if unknown.
func (p *Params) Float(name string) float64 {
	val, _ := p.Lookup(name)
	return val
}

// Int returns the current value of name truncated to int, or 0 if unknown.
func (p *Params) Int(name string) int {
	return int(p.Float(name))
}

// Bool reports whether the current value of name is non-zero.
func (p *Params) Bool(name string) bool {
	return p.Float(name) != 0
}
