// Package settings is a per-client key/value store with typed fields, range
// constraints and synchronous change notification. Values live in a viper
// instance and can be persisted to a TOML file between sessions.
package settings

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

var (
	ErrNotRegistered = errors.New("setting not registered")
	ErrDuplicate     = errors.New("setting already registered")
	ErrWrongType     = errors.New("wrong value type")
	ErrOutOfRange    = errors.New("value out of range")
)

// Scope controls where a value is stored. Only client-scope values are
// persisted by this store.
type Scope string

const (
	ScopeClient Scope = "client"
	ScopeWorld  Scope = "world"
)

// Type is the value type of a setting.
type Type int

const (
	TypeNumber Type = iota
	TypeBoolean
	TypeString
	// TypeColor holds a hex color string as entered. The store does not
	// validate it; consumers parse leniently.
	TypeColor
)

func (t Type) String() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeBoolean:
		return "boolean"
	case TypeString:
		return "string"
	case TypeColor:
		return "color"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Range bounds a Number setting. Step is a UI hint only.
type Range struct {
	Min, Max, Step float64
}

// Descriptor describes a registered setting.
type Descriptor struct {
	Name    string
	Hint    string
	Scope   Scope
	Config  bool // shown in the settings UI
	Type    Type
	Default any
	Range   *Range
	// OnChange runs synchronously after a new value is stored.
	OnChange func(value any)
}

// Entry is a registered setting as listed for settings UIs.
type Entry struct {
	Namespace string
	Key       string
	Descriptor
}

// Store holds registered settings.
type Store struct {
	v     *viper.Viper
	path  string
	log   zerolog.Logger
	descs map[string]*Entry
	order []string
}

// Option configures a Store.
type Option func(*Store)

// WithFile persists client-scope values to path (TOML).
func WithFile(path string) Option {
	return func(s *Store) {
		s.path = path
	}
}

// WithLogger sets the store logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		v:     viper.New(),
		log:   zerolog.Nop(),
		descs: make(map[string]*Entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func fullKey(namespace, key string) string {
	return namespace + "." + key
}

// Register adds a setting. The default must satisfy the descriptor's type and
// range.
func (s *Store) Register(namespace, key string, d Descriptor) error {
	k := fullKey(namespace, key)
	if _, ok := s.descs[k]; ok {
		return fmt.Errorf("%s: %w", k, ErrDuplicate)
	}
	if d.Scope == "" {
		d.Scope = ScopeClient
	}
	def, err := normalize(d, d.Default)
	if err != nil {
		return fmt.Errorf("%s default: %w", k, err)
	}
	d.Default = def

	s.descs[k] = &Entry{Namespace: namespace, Key: key, Descriptor: d}
	s.order = append(s.order, k)
	s.v.SetDefault(k, def)
	return nil
}

// Entries lists registered settings in registration order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, *s.descs[k])
	}
	return out
}

// Get returns the current value of a setting.
func (s *Store) Get(namespace, key string) (any, error) {
	k := fullKey(namespace, key)
	if _, ok := s.descs[k]; !ok {
		return nil, fmt.Errorf("%s: %w", k, ErrNotRegistered)
	}
	return s.v.Get(k), nil
}

// Float returns a Number setting, or 0 when unregistered.
func (s *Store) Float(namespace, key string) float64 {
	v, err := s.Get(namespace, key)
	if err != nil {
		return 0
	}
	f, _ := v.(float64)
	return f
}

// Bool returns a Boolean setting, or false when unregistered.
func (s *Store) Bool(namespace, key string) bool {
	v, err := s.Get(namespace, key)
	if err != nil {
		return false
	}
	b, _ := v.(bool)
	return b
}

// String returns a String or Color setting, or "" when unregistered.
func (s *Store) String(namespace, key string) string {
	v, err := s.Get(namespace, key)
	if err != nil {
		return ""
	}
	str, _ := v.(string)
	return str
}

// Set validates and stores a value, persists it when a file is configured, then
// runs the setting's OnChange callback.
func (s *Store) Set(namespace, key string, value any) error {
	k := fullKey(namespace, key)
	e, ok := s.descs[k]
	if !ok {
		return fmt.Errorf("%s: %w", k, ErrNotRegistered)
	}
	nv, err := normalize(e.Descriptor, value)
	if err != nil {
		return fmt.Errorf("%s: %w", k, err)
	}
	s.v.Set(k, nv)

	if err := s.Save(); err != nil {
		s.log.Warn().Err(err).Str("setting", k).Msg("persisting setting failed")
	}

	s.log.Debug().Str("setting", k).Interface("value", nv).Msg("setting changed")
	if e.OnChange != nil {
		e.OnChange(nv)
	}
	return nil
}

// Load reads persisted values from the configured file. A missing file is not
// an error. Values that fail validation keep their default.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	file := viper.New()
	file.SetConfigFile(s.path)
	file.SetConfigType("toml")
	if err := file.ReadInConfig(); err != nil {
		return fmt.Errorf("reading settings file: %w", err)
	}

	for _, k := range s.order {
		if !file.IsSet(k) {
			continue
		}
		e := s.descs[k]
		if e.Scope != ScopeClient {
			continue
		}
		nv, err := normalize(e.Descriptor, file.Get(k))
		if err != nil {
			s.log.Warn().Err(err).Str("setting", k).Msg("ignoring stored setting")
			continue
		}
		s.v.Set(k, nv)
	}
	return nil
}

// Save writes client-scope values to the configured file.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}
	out := viper.New()
	for _, k := range s.order {
		if s.descs[k].Scope == ScopeClient {
			out.Set(k, s.v.Get(k))
		}
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}
	if err := out.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	return nil
}

func normalize(d Descriptor, value any) (any, error) {
	switch d.Type {
	case TypeNumber:
		f, ok := toFloat(value)
		if !ok {
			return nil, fmt.Errorf("%w: want number, got %T", ErrWrongType, value)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: %v", ErrOutOfRange, f)
		}
		if d.Range != nil && (f < d.Range.Min || f > d.Range.Max) {
			return nil, fmt.Errorf("%w: %v not in [%v, %v]", ErrOutOfRange, f, d.Range.Min, d.Range.Max)
		}
		return f, nil
	case TypeBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: want boolean, got %T", ErrWrongType, value)
		}
		return b, nil
	case TypeString, TypeColor:
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: want string, got %T", ErrWrongType, value)
		}
		return str, nil
	default:
		return nil, fmt.Errorf("%w: unknown setting type %s", ErrWrongType, d.Type)
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
