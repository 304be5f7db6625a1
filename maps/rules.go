package maps

import "github.com/rerolab/9-life/engine"

// assetRules mirrors the fields of engine.MapData that carry field-level constraints, so the
// rules live next to the loader instead of on the engine types.
type assetRules struct {
	ID               string        `binding:"required"`
	LoanInterestRate float64       `binding:"gte=0"`
	Tiles            []tileRules   `binding:"required,min=1,dive"`
	Careers          []careerRules `binding:"dive"`
	Houses           []houseRules  `binding:"dive"`
}

type tileRules struct {
	Type string `binding:"required"`
}

type careerRules struct {
	ID   string `binding:"required"`
	Pool string `binding:"required"`
}

type houseRules struct {
	ID        string `binding:"required"`
	Price     int64  `binding:"gte=0"`
	SellPrice int64  `binding:"gte=0"`
}

func rulesFor(m engine.MapData) assetRules {
	r := assetRules{
		ID:               m.ID,
		LoanInterestRate: m.LoanInterestRate,
		Tiles:            make([]tileRules, len(m.Tiles)),
		Careers:          make([]careerRules, len(m.Careers)),
		Houses:           make([]houseRules, len(m.Houses)),
	}
	for i, t := range m.Tiles {
		r.Tiles[i] = tileRules{Type: string(t.Type)}
	}
	for i, c := range m.Careers {
		r.Careers[i] = careerRules{ID: c.ID, Pool: c.Pool}
	}
	for i, h := range m.Houses {
		r.Houses[i] = houseRules{ID: h.ID, Price: h.Price, SellPrice: h.SellPrice}
	}
	return r
}
