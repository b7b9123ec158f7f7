package intent

// Type is a classified user intent.
type Type string

// Intent constants.
const (
	Entry           Type = "entry"
	GetDuties       Type = "get_duties"
	CNGPumps        Type = "cng_pumps"
	Parking         Type = "parking"
	PetrolPumps     Type = "petrol_pumps"
	NearbyDrivers   Type = "nearby_drivers"
	Towing          Type = "towing"
	Toilets         Type = "toilets"
	TaxiStands      Type = "taxi_stands"
	AutoParts       Type = "auto_parts"
	CarRepair       Type = "car_repair"
	Hospital        Type = "hospital"
	PoliceStation   Type = "police_station"
	Fraud           Type = "fraud"
	Information     Type = "information"
	FraudCheckFound Type = "fraud_check_found"
	Advance         Type = "advance"
	BorderTax       Type = "border_tax"
	StateTax        Type = "state_tax"
	PUC             Type = "puc"
	AITP            Type = "aitp"
	End             Type = "end"
	Generic         Type = "generic"
)

var validTypes = map[Type]struct{}{
	Entry: {}, GetDuties: {}, CNGPumps: {}, Parking: {}, PetrolPumps: {},
	NearbyDrivers: {}, Towing: {}, Toilets: {}, TaxiStands: {}, AutoParts: {},
	CarRepair: {}, Hospital: {}, PoliceStation: {}, Fraud: {}, Information: {},
	FraudCheckFound: {}, Advance: {}, BorderTax: {}, StateTax: {}, PUC: {},
	AITP: {}, End: {}, Generic: {},
}

// IsValid checks if the intent is one of the supported values.
func (t Type) IsValid() bool {
	_, ok := validTypes[t]
	return ok
}

// UIAction tells the client what to render.
type UIAction string

// UI action constants.
const (
	ActionEntry              UIAction = "entry"
	ActionShowDutiesList     UIAction = "show_duties_list"
	ActionShowCNGStations    UIAction = "show_cng_stations"
	ActionShowPetrolStations UIAction = "show_petrol_stations"
	ActionShowParking        UIAction = "show_parking"
	ActionShowNearbyDrivers  UIAction = "show_nearby_drivers"
	ActionShowTowing         UIAction = "show_towing"
	ActionShowToilets        UIAction = "show_toilets"
	ActionShowTaxiStands     UIAction = "show_taxi_stands"
	ActionShowAutoParts      UIAction = "show_auto_parts"
	ActionShowCarRepair      UIAction = "show_car_repair"
	ActionShowHospital       UIAction = "show_hospital"
	ActionShowPoliceStation  UIAction = "show_police_station"
	ActionShowFraud          UIAction = "show_fraud"
	ActionShowInfo           UIAction = "show_info"
	ActionShowFraudResult    UIAction = "show_fraud_result"
	ActionShowAdvance        UIAction = "show_advance"
	ActionShowBorderTax      UIAction = "show_border_tax"
	ActionShowStateTax       UIAction = "show_state_tax"
	ActionShowPUC            UIAction = "show_puc"
	ActionShowAITP           UIAction = "show_aitp"
	ActionShowMap            UIAction = "show_map"
	ActionShowEnd            UIAction = "show_end"
	ActionNone               UIAction = "none"
)

var validActions = map[UIAction]struct{}{
	ActionEntry: {}, ActionShowDutiesList: {}, ActionShowCNGStations: {},
	ActionShowPetrolStations: {}, ActionShowParking: {}, ActionShowNearbyDrivers: {},
	ActionShowTowing: {}, ActionShowToilets: {}, ActionShowTaxiStands: {},
	ActionShowAutoParts: {}, ActionShowCarRepair: {}, ActionShowHospital: {},
	ActionShowPoliceStation: {}, ActionShowFraud: {}, ActionShowInfo: {},
	ActionShowFraudResult: {}, ActionShowAdvance: {}, ActionShowBorderTax: {},
	ActionShowStateTax: {}, ActionShowPUC: {}, ActionShowAITP: {},
	ActionShowMap: {}, ActionShowEnd: {}, ActionNone: {},
}

// IsValid checks if the action is one of the supported values.
func (a UIAction) IsValid() bool {
	_, ok := validActions[a]
	return ok
}

// Params holds parameters the classifier extracted from the utterance.
type Params struct {
	FromCity string
	ToCity   string
	Raw      map[string]any
}

// Result is the immutable output of one classification.
type Result struct {
	intent       Type
	uiAction     UIAction
	responseText string
	params       Params
}

// NewResult creates a classification result.
// Unknown intents collapse to Generic and unknown actions to None.
func NewResult(t Type, a UIAction, responseText string, params Params) Result {
	if !t.IsValid() {
		t = Generic
	}
	if !a.IsValid() {
		a = ActionNone
	}
	return Result{intent: t, uiAction: a, responseText: responseText, params: params}
}

// Intent returns the classified intent.
func (r Result) Intent() Type { return r.intent }

// UIAction returns the UI action.
func (r Result) UIAction() UIAction { return r.uiAction }

// ResponseText returns the text to speak.
func (r Result) ResponseText() string { return r.responseText }

// Params returns the extracted parameters.
func (r Result) Params() Params { return r.params }
