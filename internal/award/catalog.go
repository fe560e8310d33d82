package award

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nhle/portfolio/internal/model"
)

//go:embed awards.json
var defaultCatalog []byte

// ErrEmptyCatalog is returned for a catalog with no awards.
var ErrEmptyCatalog = errors.New("award catalog is empty")

// catalogFile is the on-disk shape of a catalog.
type catalogFile struct {
	Version int           `json:"version" yaml:"version"`
	Awards  []model.Award `json:"awards" yaml:"awards"`
}

// Catalog is the immutable list of award definitions.
type Catalog struct {
	version int
	awards  []model.Award
	byID    map[string]int
}

// LoadDefault parses the catalog compiled into the binary.
func LoadDefault() (*Catalog, error) {
	c, err := ParseJSON(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("loading built-in award catalog: %w", err)
	}
	return c, nil
}

// LoadFile reads a catalog from a .json, .yaml or .yml file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading award catalog %s: %w", path, err)
	}

	var c *Catalog
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		c, err = ParseYAML(data)
	default:
		c, err = ParseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("loading award catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseJSON builds a catalog from JSON. A bare array of awards is accepted
// as version 0.
func ParseJSON(data []byte) (*Catalog, error) {
	var f catalogFile
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(data, &f.Awards); err != nil {
			return nil, fmt.Errorf("parsing award list: %w", err)
		}
	} else if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing award catalog: %w", err)
	}
	return newCatalog(f)
}

// ParseYAML builds a catalog from YAML.
func ParseYAML(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing award catalog: %w", err)
	}
	return newCatalog(f)
}

func newCatalog(f catalogFile) (*Catalog, error) {
	if len(f.Awards) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		version: f.Version,
		awards:  make([]model.Award, 0, len(f.Awards)),
		byID:    make(map[string]int, len(f.Awards)),
	}
	for i, a := range f.Awards {
		if a.ID == "" {
			return nil, fmt.Errorf("award %d has no id", i)
		}
		if a.Name == "" {
			return nil, fmt.Errorf("award %q has no name", a.ID)
		}
		if a.Value < 0 {
			return nil, fmt.Errorf("award %q has negative value %d", a.ID, a.Value)
		}
		if _, dup := c.byID[a.ID]; dup {
			return nil, fmt.Errorf("duplicate award id %q", a.ID)
		}
		c.byID[a.ID] = len(c.awards)
		c.awards = append(c.awards, a)
	}
	return c, nil
}

// Version is the catalog file's version number.
func (c *Catalog) Version() int { return c.version }

// Len is the number of awards.
func (c *Catalog) Len() int { return len(c.awards) }

// All returns a copy of the awards in catalog order.
func (c *Catalog) All() []model.Award {
	out := make([]model.Award, len(c.awards))
	copy(out, c.awards)
	return out
}

// ByID finds an award by its ID.
func (c *Catalog) ByID(id string) (model.Award, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.Award{}, false
	}
	return c.awards[i], true
}
