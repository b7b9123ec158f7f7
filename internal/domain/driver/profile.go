package driver

// Profile is the driver profile the client sends with every request.
// Only the fields the assistant reads are typed; the client may send more.
// Fields the client sends with varying JSON shapes are kept as any.
type Profile struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	VehicleType   string `json:"vehicle_type,omitempty"`
	VehicleNumber string `json:"vehicle_number,omitempty"`
	IsVerified    bool   `json:"is_verified"`

	Gender   string `json:"gender,omitempty"`
	City     string `json:"city,omitempty"`
	Age      *int   `json:"age,omitempty"`
	Married  *bool  `json:"married,omitempty"`
	Children *int   `json:"children,omitempty"`
	Bio      string `json:"bio,omitempty"`

	ProfileVerified   *bool `json:"profileVerified,omitempty"`
	IsAadhaarVerified *bool `json:"isAadhaarVerified,omitempty"`
	IsDLVerified      *bool `json:"isDLVerified,omitempty"`
	Fraud             *bool `json:"fraud,omitempty"`
	FraudReports      *int  `json:"fraudReports,omitempty"`

	ProfileVisits   *int     `json:"profileVisits,omitempty"`
	ConnectionCount *int     `json:"connectionCount,omitempty"`
	Connections     any      `json:"connections,omitempty"` // int or list
	TotalEarnings   *float64 `json:"totalEarnings,omitempty"`
	ConfirmedTrips  *int     `json:"confirmedTrips,omitempty"`
	CustomerCalls   *int     `json:"customerCalls,omitempty"`
	QuotationsCount *int     `json:"quotationsCount,omitempty"`
	CustomersCount  *int     `json:"customersCount,omitempty"`
	RecentCalls     any      `json:"recentCallls,omitempty"` // int or list; key spelled as the client sends it

	IsAvailableForCustomerDuty *bool                `json:"isAvailableForCustomerDuty,omitempty"`
	TripTypes                  []string             `json:"tripTypes,omitempty"`
	CustomerDutyCity           string               `json:"customerDutyCity,omitempty"`
	IsPremium                  *bool                `json:"isPremium,omitempty"`
	PremiumDriverStatus        *PremiumDriverStatus `json:"premiumDriverStatus,omitempty"`
	Onboarded                  any                  `json:"onboarded,omitempty"` // bool or {"at": "..."}
	Leads                      *LeadsInfo           `json:"leads,omitempty"`

	SmokingAllowedInside              *bool `json:"smokingAllowedInside,omitempty"`
	IsPetAllowed                      *bool `json:"isPetAllowed,omitempty"`
	AvailableForCustomersPersonalCar  *bool `json:"availableForCustomersPersonalCar,omitempty"`
	AvailableForPartTimeFullTime      any   `json:"availableForPartTimeFullTime,omitempty"` // bool or string
	AvailableForDrivingInEventWedding *bool `json:"availableForDrivingInEventWedding,omitempty"`
	AllowHandicappedPersons           *bool `json:"allowHandicappedPersons,omitempty"`

	Languages        []string `json:"languages,omitempty"`
	VerifiedVehicles []any    `json:"verifiedVehicles,omitempty"`
	Routes           []any    `json:"routes,omitempty"`
}

// PremiumDriverStatus tracks progress towards the premium badge.
type PremiumDriverStatus struct {
	CompletedCriteria    any      `json:"completedCriteria,omitempty"` // int or list
	CompletionPercentage *float64 `json:"completionPercentage,omitempty"`
	PremiumDriver        bool     `json:"premiumDriver"`
}

// LeadsInfo holds lead counters.
type LeadsInfo struct {
	Available int `json:"available"`
	Exchange  int `json:"exchange"`
	Duties    int `json:"duties"`
}

// Location is the driver's current GPS position.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
