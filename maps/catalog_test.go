package maps

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rerolab/9-life/domain"
	"github.com/rerolab/9-life/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMap() engine.MapData {
	return engine.MapData{
		ID:               "tiny",
		Name:             "Tiny",
		Version:          "1.0",
		StartMoney:       1000,
		LoanUnit:         100,
		LoanInterestRate: 1.1,
		Tiles: []engine.TileData{
			{ID: 0, Type: engine.TileStart, Next: []int{1}},
			{ID: 1, Type: engine.TileRetire, Next: []int{}},
		},
		Careers: []engine.Career{{ID: "c", Name: "C", Salary: 10, Pool: "basic"}},
		Houses:  []engine.House{{ID: "h", Name: "H", Price: 10, SellPrice: 20}},
	}
}

func writeMap(t *testing.T, dir, id string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".json"), data, 0o644))
}

func TestLoadClassic(t *testing.T) {
	c := NewCatalog("")

	m, err := c.Load(ClassicID)

	require.NoError(t, err)
	assert.Equal(t, ClassicID, m.ID)
	assert.NoError(t, Validate(m))
	assert.NotEmpty(t, m.Careers)
	assert.NotEmpty(t, m.Houses)

	types := map[engine.TileType]bool{}
	for _, tile := range m.Tiles {
		types[tile.Type] = true
	}
	for _, want := range []engine.TileType{
		engine.TileStart, engine.TilePayday, engine.TileAction, engine.TileCareer, engine.TileHouse,
		engine.TileMarry, engine.TileBaby, engine.TileStock, engine.TileInsurance, engine.TileTax,
		engine.TileLawsuit, engine.TileBranch, engine.TileRetire,
	} {
		assert.True(t, types[want], "classic map has no %s tile", want)
	}
}

func TestLoadReturnsIndependentCopies(t *testing.T) {
	c := NewCatalog("")

	a, err := c.Load(ClassicID)
	require.NoError(t, err)
	a.Tiles[0].Next[0] = 999
	a.Houses[0].Price = -1

	b, err := c.Load(ClassicID)
	require.NoError(t, err)
	assert.NotEqual(t, 999, b.Tiles[0].Next[0])
	assert.NotEqual(t, int64(-1), b.Houses[0].Price)
}

func TestLoadUnknown(t *testing.T) {
	c := NewCatalog(t.TempDir())

	for _, id := range []string{"nope", "", "../etc/passwd", "Classic"} {
		_, err := c.Load(id)
		assert.ErrorIs(t, err, domain.ErrUnknownMap, id)
	}
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	writeMap(t, dir, "tiny", validMap())

	override := validMap()
	override.ID = ClassicID
	override.StartMoney = 1
	writeMap(t, dir, ClassicID, override)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644))

	c := NewCatalog(dir)

	m, err := c.Load("tiny")
	require.NoError(t, err)
	assert.Equal(t, "Tiny", m.Name)

	m, err = c.Load(ClassicID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.StartMoney, "directory overrides embedded map")

	_, err = c.Load("broken")
	assert.ErrorIs(t, err, domain.ErrInvalidMap)

	assert.Equal(t, []string{"broken", ClassicID, "tiny"}, c.IDs())
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		desc   string
		mutate func(m *engine.MapData)
		valid  bool
	}{
		{desc: "valid", mutate: func(m *engine.MapData) {}, valid: true},
		{desc: "no tiles", mutate: func(m *engine.MapData) { m.Tiles = nil }},
		{desc: "missing id", mutate: func(m *engine.MapData) { m.ID = "" }},
		{desc: "duplicate tile id", mutate: func(m *engine.MapData) { m.Tiles[1].ID = 0 }},
		{desc: "dangling next", mutate: func(m *engine.MapData) { m.Tiles[0].Next = []int{7} }},
		{desc: "no terminal tile", mutate: func(m *engine.MapData) { m.Tiles[1].Next = []int{0} }},
		{desc: "unknown tile type", mutate: func(m *engine.MapData) { m.Tiles[0].Type = "Casino" }},
		{desc: "empty tile type", mutate: func(m *engine.MapData) { m.Tiles[0].Type = "" }},
		{desc: "negative house price", mutate: func(m *engine.MapData) { m.Houses[0].Price = -5 }},
		{desc: "negative interest rate", mutate: func(m *engine.MapData) { m.LoanInterestRate = -1 }},
		{desc: "career without pool", mutate: func(m *engine.MapData) { m.Careers[0].Pool = "" }},
		{desc: "career without id", mutate: func(m *engine.MapData) { m.Careers[0].ID = "" }},
		{desc: "negative sell price", mutate: func(m *engine.MapData) { m.Houses[0].SellPrice = -1 }},
		{desc: "house without id", mutate: func(m *engine.MapData) { m.Houses[0].ID = "" }},
		{
			desc:   "unknown tile event",
			mutate: func(m *engine.MapData) { m.Tiles[0].Event = &engine.TileEvent{Type: "teleport"} },
		},
		{
			desc:   "money event",
			mutate: func(m *engine.MapData) { m.Tiles[0].Event = &engine.TileEvent{Type: "money", Amount: -50} },
			valid:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			m := validMap()
			tc.mutate(&m)

			err := Validate(m)

			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidMap)
			}
		})
	}
}
