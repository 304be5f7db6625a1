package room

import "github.com/rerolab/9-life/engine"

// Action ids accepted on any tile, besides the per-tile choices.
const (
	ActionIDRepayDebt = "repay_debt"
	ActionIDBuyStock  = "buy_stock"
)

// parseAction reads a client's action id in the context of the tile the current player
// stands on. Anything that makes no sense there becomes a skip.
func parseAction(s *engine.State, actionID string) engine.Action {
	switch actionID {
	case ActionIDRepayDebt:
		return engine.Action{Kind: engine.ActionRepayDebt}
	case ActionIDBuyStock:
		return engine.Action{Kind: engine.ActionBuyStock}
	case engine.SkipChoiceID:
		return engine.Action{Kind: engine.ActionSkip}
	}

	tile, ok := s.Board.Tile(s.CurrentPlayer().Position)
	if !ok {
		return engine.Action{Kind: engine.ActionSkip}
	}

	switch tile.Type {
	case engine.TileHouse:
		return engine.Action{Kind: engine.ActionBuyHouse, HouseID: actionID}
	case engine.TileInsurance:
		switch engine.InsuranceType(actionID) {
		case engine.InsuranceLife, engine.InsuranceAuto:
			return engine.Action{Kind: engine.ActionBuyInsurance, Insurance: engine.InsuranceType(actionID)}
		}
	case engine.TileLawsuit:
		return engine.Action{Kind: engine.ActionSelectLawsuitTarget, TargetID: actionID}
	}
	return engine.Action{Kind: engine.ActionSkip}
}
