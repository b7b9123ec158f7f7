package assistant

import "github.com/cabswale/raahi/internal/domain/intent"

// emptyPayload returns the data object clients expect for intents whose
// content is rendered on the device. nil means the response carries no data.
func emptyPayload(t intent.Type) map[string]any {
	switch t {
	case intent.CNGPumps, intent.PetrolPumps, intent.Parking, intent.PoliceStation:
		return map[string]any{"stations": []any{}}
	case intent.NearbyDrivers:
		return map[string]any{"drivers": []any{}}
	case intent.Towing:
		return map[string]any{"services": []any{}}
	case intent.Toilets:
		return map[string]any{"locations": []any{}}
	case intent.TaxiStands:
		return map[string]any{"stands": []any{}}
	case intent.AutoParts, intent.CarRepair:
		return map[string]any{"shops": []any{}}
	case intent.Hospital:
		return map[string]any{"hospitals": []any{}}
	case intent.Fraud, intent.Advance, intent.BorderTax, intent.StateTax,
		intent.PUC, intent.AITP, intent.Information, intent.End:
		return map[string]any{}
	default:
		return nil
	}
}
