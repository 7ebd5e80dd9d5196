package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"spacebattle/internal/collision"
	"spacebattle/internal/trie"
)

var ErrInvalid = errors.New("config: invalid")

// Config describes one simulation run
type Config struct {
	TileSize         int        `toml:"tile_size"`
	Arity            int        `toml:"arity"`
	StrictPriorities bool       `toml:"strict_priorities"`
	Ticks            int        `toml:"ticks"`
	Priorities       []Priority `toml:"priority"`
	Tables           []Table    `toml:"table"`
	Entities         []Entity   `toml:"entity"`
	Store            Store      `toml:"store"`

	dir string // directory of the loaded file, for relative table paths
}

// Priority declares the primary type of a pair
type Priority struct {
	A       string `toml:"a"`
	B       string `toml:"b"`
	Primary string `toml:"primary"`
}

// Table registers collision deltas for a node type, inline, from a msgpack
// file, or both.
type Table struct {
	NodeType string  `toml:"node_type"`
	Paths    [][]int `toml:"paths"`
	File     string  `toml:"file"`
}

// Entity is spawned at startup
type Entity struct {
	Kind     string `toml:"kind"`
	Position []int  `toml:"position"`
	Velocity []int  `toml:"velocity"`
	Shape    string `toml:"shape"`
}

// Store configures persistence. Empty paths disable the matching sink.
type Store struct {
	Path          string        `toml:"path"`
	EvidenceDir   string        `toml:"evidence_dir"`
	FlushInterval time.Duration `toml:"flush_interval"`
	BatchSize     int           `toml:"batch_size"`
}

// Default returns the configuration used when a key is omitted
func Default() *Config {
	return &Config{
		TileSize: 10,
		Arity:    2,
		Ticks:    60,
		Store: Store{
			FlushInterval: 5 * time.Second,
			BatchSize:     50,
		},
	}
}

// Load reads and validates a TOML file. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	cfg.dir = filepath.Dir(path)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes and validates TOML text. Relative table files resolve
// against the working directory.
func Parse(data string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func checkUndecoded(md toml.MetaData) error {
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(names, ", "))
	}
	return nil
}

// Validate checks tile size, arity and every vector against the arity
func (c *Config) Validate() error {
	if c.TileSize <= 0 {
		return fmt.Errorf("%w: tile_size must be positive, got %d", ErrInvalid, c.TileSize)
	}
	if c.Arity < 2 {
		return fmt.Errorf("%w: arity must be at least 2, got %d", ErrInvalid, c.Arity)
	}
	if c.Ticks < 0 {
		return fmt.Errorf("%w: ticks must not be negative", ErrInvalid)
	}
	for i, p := range c.Priorities {
		if p.A == "" || p.B == "" {
			return fmt.Errorf("%w: priority %d: both types are required", ErrInvalid, i)
		}
		if p.Primary != p.A && p.Primary != p.B {
			return fmt.Errorf("%w: priority %d: primary %q is neither %q nor %q", ErrInvalid, i, p.Primary, p.A, p.B)
		}
	}
	for i, t := range c.Tables {
		if t.NodeType == "" {
			return fmt.Errorf("%w: table %d: node_type is required", ErrInvalid, i)
		}
		for _, path := range t.Paths {
			if len(path) != 2*c.Arity {
				return fmt.Errorf("%w: table %s: path %v has %d components, want %d",
					ErrInvalid, t.NodeType, path, len(path), 2*c.Arity)
			}
		}
	}
	for i, e := range c.Entities {
		if e.Kind == "" {
			return fmt.Errorf("%w: entity %d: kind is required", ErrInvalid, i)
		}
		if len(e.Position) != c.Arity || len(e.Velocity) != c.Arity {
			return fmt.Errorf("%w: entity %d (%s): position and velocity need %d components",
				ErrInvalid, i, e.Kind, c.Arity)
		}
	}
	return nil
}

// PriorityTable converts the priority list
func (c *Config) PriorityTable() collision.PriorityTable {
	t := make(collision.PriorityTable, len(c.Priorities))
	for _, p := range c.Priorities {
		t[collision.TypePair{A: p.A, B: p.B}] = p.Primary
	}
	return t
}

// NodeTables builds one trie per node type. Entries sharing a node type
// are merged.
func (c *Config) NodeTables() (collision.Tables, error) {
	tables := make(collision.Tables, len(c.Tables))
	for _, t := range c.Tables {
		root, ok := tables[t.NodeType].(trie.Branch)
		if !ok {
			root = trie.Branch{}
		}
		if t.File != "" {
			path := t.File
			if !filepath.IsAbs(path) && c.dir != "" {
				path = filepath.Join(c.dir, path)
			}
			loaded, err := trie.LoadFile(path)
			if err != nil {
				return nil, fmt.Errorf("config: table %s: %w", t.NodeType, err)
			}
			for _, p := range loaded.Paths() {
				root.Insert(p)
			}
		}
		for _, p := range t.Paths {
			root.Insert(p)
		}
		tables[t.NodeType] = root
	}
	return tables, nil
}
