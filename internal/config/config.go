// Package config loads engine tunables from YAML and validates them against
// an embedded CUE schema.
//
// Unset fields keep their defaults, unknown fields are rejected, and
// cross-field rules (delivery_max > delivery_min, shift_close > shift_open)
// are enforced by the schema.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/pvz/internal/clock"
)

//go:embed schema.cue
var schemaCUE string

// Config holds every engine tunable. JSON tags drive CUE validation; YAML tags
// drive file decoding. Both use the same names.
type Config struct {
	Salary            int     `yaml:"salary" json:"salary"`
	InitialRating     float64 `yaml:"initial_rating" json:"initial_rating"`
	InitialOrders     int     `yaml:"initial_orders" json:"initial_orders"`
	QueueLimit        int     `yaml:"queue_limit" json:"queue_limit"`
	SpawnChance       float64 `yaml:"spawn_chance" json:"spawn_chance"`
	TickIntervalMS    int     `yaml:"tick_interval_ms" json:"tick_interval_ms"`
	DeliveryLatencyMS int     `yaml:"delivery_latency_ms" json:"delivery_latency_ms"`
	DeliveryMin       int     `yaml:"delivery_min" json:"delivery_min"`
	DeliveryMax       int     `yaml:"delivery_max" json:"delivery_max"`
	ShiftOpen         int     `yaml:"shift_open" json:"shift_open"`
	ShiftClose        int     `yaml:"shift_close" json:"shift_close"`
	TimeStep          int     `yaml:"time_step" json:"time_step"`
	AcceptBonus       int     `yaml:"accept_bonus" json:"accept_bonus"`
	IssueBonus        int     `yaml:"issue_bonus" json:"issue_bonus"`
	ReturnBonus       int     `yaml:"return_bonus" json:"return_bonus"`
	RatingStep        float64 `yaml:"rating_step" json:"rating_step"`
	UniqueCodes       bool    `yaml:"unique_codes" json:"unique_codes"`
	Locale            string  `yaml:"locale" json:"locale"`

	// Journal is the SQLite DSN of the session journal. ":memory:" keeps it
	// in process; the engine never reads it back.
	Journal string `yaml:"journal" json:"journal"`

	// Seed fixes the random sequence. Zero picks a random seed at startup.
	Seed uint64 `yaml:"seed" json:"seed"`
}

// Default returns the stock pickup point: 25 000₽ salary, 15 shelved orders,
// a 3-second tick, and a 1.5-second delivery scan.
func Default() Config {
	return Config{
		Salary:            25000,
		InitialRating:     5.0,
		InitialOrders:     15,
		QueueLimit:        3,
		SpawnChance:       0.05,
		TickIntervalMS:    3000,
		DeliveryLatencyMS: 1500,
		DeliveryMin:       5,
		DeliveryMax:       15,
		ShiftOpen:         clock.DefaultOpen,
		ShiftClose:        clock.DefaultClose,
		TimeStep:          clock.DefaultStep,
		AcceptBonus:       10,
		IssueBonus:        50,
		ReturnBonus:       30,
		RatingStep:        0.1,
		UniqueCodes:       false,
		Locale:            "en",
		Journal:           ":memory:",
	}
}

// TickInterval is the simulated time between clock ticks.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

// DeliveryLatency is the simulated time between a delivery request and its effect.
func (c Config) DeliveryLatency() time.Duration {
	return time.Duration(c.DeliveryLatencyMS) * time.Millisecond
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses YAML over the defaults and validates the result.
// An empty document yields the defaults.
func Decode(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cfg against the embedded schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	v := def.Unify(ctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return &ValidationError{Details: cueerrors.Details(err, nil)}
	}
	return nil
}

// ValidationError reports every schema violation found in a config.
type ValidationError struct {
	Details string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "invalid config: " + e.Details
}
