// Package maps loads board assets: the embedded classic map, plus any maps found in an
// optional directory on disk.
package maps

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/rerolab/9-life/domain"
	"github.com/rerolab/9-life/engine"
)

const ClassicID = "classic"

//go:embed classic.json
var classicJSON []byte

var validID = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// Catalog resolves map ids. Files in dir take precedence over the embedded maps, so a
// deployment can override "classic" without a rebuild.
type Catalog struct {
	dir string

	once    sync.Once
	builtin map[string]engine.MapData
	err     error
}

func NewCatalog(dir string) *Catalog {
	return &Catalog{dir: dir}
}

func (c *Catalog) loadBuiltin() {
	c.once.Do(func() {
		m, err := Parse(classicJSON)
		if err != nil {
			c.err = fmt.Errorf("embedded %s map: %w", ClassicID, err)
			return
		}
		c.builtin = map[string]engine.MapData{ClassicID: m}
	})
}

// Load returns a validated copy of the map. Unknown ids yield domain.ErrUnknownMap; a file
// that exists but fails to parse or validate yields domain.ErrInvalidMap.
func (c *Catalog) Load(id string) (engine.MapData, error) {
	if !validID.MatchString(id) {
		return engine.MapData{}, fmt.Errorf("%w: %q", domain.ErrUnknownMap, id)
	}

	if c.dir != "" {
		data, err := os.ReadFile(filepath.Join(c.dir, id+".json"))
		switch {
		case err == nil:
			m, err := Parse(data)
			if err != nil {
				return engine.MapData{}, fmt.Errorf("map %q: %w", id, err)
			}
			return m, nil
		case !errors.Is(err, fs.ErrNotExist):
			return engine.MapData{}, fmt.Errorf("read map %q: %w", id, err)
		}
	}

	c.loadBuiltin()
	if c.err != nil {
		return engine.MapData{}, c.err
	}
	m, ok := c.builtin[id]
	if !ok {
		return engine.MapData{}, fmt.Errorf("%w: %q", domain.ErrUnknownMap, id)
	}
	return copyMap(m), nil
}

// IDs lists every map id the catalog can load, sorted.
func (c *Catalog) IDs() []string {
	seen := map[string]struct{}{ClassicID: {}}
	if c.dir != "" {
		entries, _ := os.ReadDir(c.dir)
		for _, e := range entries {
			name := e.Name()
			id, ok := strings.CutSuffix(name, ".json")
			if e.IsDir() || !ok || !validID.MatchString(id) {
				continue
			}
			seen[id] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Parse decodes and validates a map asset.
func Parse(data []byte) (engine.MapData, error) {
	var m engine.MapData
	if err := json.Unmarshal(data, &m); err != nil {
		return engine.MapData{}, fmt.Errorf("%w: %w", domain.ErrInvalidMap, err)
	}
	if err := Validate(m); err != nil {
		return engine.MapData{}, err
	}
	return m, nil
}

// Validate checks the field constraints in assetRules and then the shape of the tile graph.
func Validate(m engine.MapData) error {
	rules := rulesFor(m)
	if err := binding.Validator.ValidateStruct(&rules); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidMap, err)
	}

	ids := make(map[int]struct{}, len(m.Tiles))
	for _, t := range m.Tiles {
		if _, dup := ids[t.ID]; dup {
			return fmt.Errorf("%w: duplicate tile id %d", domain.ErrInvalidMap, t.ID)
		}
		ids[t.ID] = struct{}{}
	}

	terminal := false
	for _, t := range m.Tiles {
		if !t.Type.Valid() {
			return fmt.Errorf("%w: tile %d has unknown type %q", domain.ErrInvalidMap, t.ID, t.Type)
		}
		if len(t.Next) == 0 {
			terminal = true
		}
		for _, n := range t.Next {
			if _, ok := ids[n]; !ok {
				return fmt.Errorf("%w: tile %d points to missing tile %d", domain.ErrInvalidMap, t.ID, n)
			}
		}
		if t.Event != nil {
			switch t.Event.Type {
			case engine.TileEventMoney, engine.TileEventDrawCareer:
			default:
				return fmt.Errorf("%w: tile %d has unknown event %q", domain.ErrInvalidMap, t.ID, t.Event.Type)
			}
		}
	}
	if !terminal {
		return fmt.Errorf("%w: no terminal tile", domain.ErrInvalidMap)
	}
	return nil
}

func copyMap(m engine.MapData) engine.MapData {
	c := m
	c.Tiles = make([]engine.TileData, len(m.Tiles))
	for i, t := range m.Tiles {
		t.Next = append([]int{}, t.Next...)
		t.Labels = append([]string(nil), t.Labels...)
		if t.Event != nil {
			ev := *t.Event
			t.Event = &ev
		}
		c.Tiles[i] = t
	}
	c.Careers = append([]engine.Career{}, m.Careers...)
	c.Houses = append([]engine.House{}, m.Houses...)
	return c
}
