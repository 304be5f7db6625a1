package engine

import "encoding/json"

type Tile struct {
	ID       int        `json:"id"`
	Type     TileType   `json:"type"`
	Position Position   `json:"position"`
	Next     []int      `json:"next"`
	Event    *TileEvent `json:"event,omitempty"`
	Labels   []string   `json:"labels,omitempty"`
}

// IsTerminal reports whether the tile has no successor.
func (t Tile) IsTerminal() bool {
	return len(t.Next) == 0
}

// IsBranch reports whether leaving the tile needs an explicit path choice.
func (t Tile) IsBranch() bool {
	return len(t.Next) > 1
}

// Board is the static tile graph of a game. It is never modified after NewBoard.
type Board struct {
	Tiles []Tile `json:"tiles"`
	index map[int]int
}

func NewBoard(m MapData) Board {
	tiles := make([]Tile, 0, len(m.Tiles))
	for _, td := range m.Tiles {
		t := Tile{
			ID:       td.ID,
			Type:     td.Type,
			Position: td.Position,
			Next:     append([]int{}, td.Next...),
			Labels:   append([]string(nil), td.Labels...),
		}
		if td.Event != nil {
			ev := *td.Event
			t.Event = &ev
		}
		tiles = append(tiles, t)
	}
	return Board{Tiles: tiles, index: buildIndex(tiles)}
}

func buildIndex(tiles []Tile) map[int]int {
	index := make(map[int]int, len(tiles))
	for i, t := range tiles {
		if _, dup := index[t.ID]; !dup {
			index[t.ID] = i
		}
	}
	return index
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var raw struct {
		Tiles []Tile `json:"tiles"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.Tiles = raw.Tiles
	b.index = buildIndex(raw.Tiles)
	return nil
}

func (b Board) TileIndex(id int) (int, bool) {
	if b.index != nil {
		i, ok := b.index[id]
		return i, ok
	}
	for i, t := range b.Tiles {
		if t.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (b Board) Tile(id int) (Tile, bool) {
	i, ok := b.TileIndex(id)
	if !ok {
		return Tile{}, false
	}
	return b.Tiles[i], true
}

// EntryTile is the first tile of the board, where every player starts.
func (b Board) EntryTile() int {
	if len(b.Tiles) == 0 {
		return 0
	}
	return b.Tiles[0].ID
}
