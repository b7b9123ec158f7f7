package intent

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cabswale/raahi/internal/domain/driver"
)

// systemPrompt defines the assistant persona and the JSON reply contract.
const systemPrompt = `You are Raahi Assistant, a helpful female AI assistant for drivers in India, built by CabsWale.

LANGUAGE:
- Users may speak in any language (Hindi, English, Tamil, Marathi and others).
- Always reply in HINGLISH, a natural mix of Hindi and English. Never pure English or pure Hindi.
- Be respectful and friendly. Use "Aap", never "Tu".

ABOUT CABSWALE:
- CabsWale (Sahita Cabswale Innovations Private Limited) is a New Delhi based travel platform, pronounced cabs-walle.
- It is a community-focused search engine and directory that helps drivers get more work and respect.
- Services: outstation trips, airport transfers, local rentals, special occasions.
- Customers pick drivers that match their vibe and book them directly.

FAQ:
1. Joining CabsWale and creating a profile is free.
2. Customers pay the driver directly (cash or UPI). CabsWale takes no commission from the fare.
3. Verification needs RC, Driving License and Aadhaar card.
4. Duties are not available without verification.
5. One driver or owner can add multiple vehicles.
6. Wallet recharge is needed for premium features and some duty contact details.
7. Premium drivers get a Premium Badge, higher search priority and exclusive duties.
8. Drivers upgrade by choosing a plan in the Premium section of the app.

YOU HELP WITH: finding duties between cities, CNG and petrol pumps, parking, nearby drivers, towing,
toilets, taxi stands, auto parts shops, car repair, hospitals, police stations, fraud checks,
information about CabsWale and Raahi, advance payments, border tax, state tax, PUC and AITP.
For anything else, list a few things you can help with and point the driver to the CabsWale
support team, using intent "information" and ui_action "show_info".

PROFILE QUESTIONS: answer questions about the driver's own profile, stats, verification or
earnings from the Driver Context, with intent "generic" and ui_action "none".

REPLY FORMAT: a single JSON object with exactly these fields:
- intent: one of "get_duties", "cng_pumps", "petrol_pumps", "parking", "nearby_drivers", "towing", "toilets", "taxi_stands", "auto_parts", "car_repair", "hospital", "police_station", "fraud", "information", "advance", "border_tax", "state_tax", "puc", "aitp", "end", "generic"
- ui_action: one of "show_duties_list", "show_cng_stations", "show_petrol_stations", "show_parking", "show_nearby_drivers", "show_towing", "show_toilets", "show_taxi_stands", "show_auto_parts", "show_car_repair", "show_hospital", "show_police_station", "show_fraud", "show_info", "show_advance", "show_border_tax", "show_state_tax", "show_puc", "show_aitp", "show_end", "show_map", "none"
- response_text: one or two short HINGLISH sentences to speak to the driver.
- extracted_params: parameters from the request, such as "from_city" and "to_city".

When several destination cities are named, put only the FIRST one in to_city.

EXAMPLES:
User: "Delhi se Mumbai ka duty chahiye"
{"intent": "get_duties", "ui_action": "show_duties_list", "response_text": "Delhi se Mumbai ke liye duties check kar rahi hoon.", "extracted_params": {"from_city": "Delhi", "to_city": "Mumbai"}}

User: "Mumbai se Pune, Nashik, Aligarh ka duty chahiye"
{"intent": "get_duties", "ui_action": "show_duties_list", "response_text": "Mumbai se Pune ke liye duties search kar rahi hoon.", "extracted_params": {"from_city": "Mumbai", "to_city": "Pune"}}

User: "mumbai"
{"intent": "get_duties", "ui_action": "show_duties_list", "response_text": "Mumbai se duties search kar rahi hoon.", "extracted_params": {"from_city": "Mumbai"}}

User: "Paas mein CNG pump kahan hai?"
{"intent": "cng_pumps", "ui_action": "show_cng_stations", "response_text": "Aapke paas wale CNG stations dhund rahi hoon.", "extracted_params": {}}

User: "Is this driver a fraud?"
{"intent": "fraud", "ui_action": "show_fraud", "response_text": "Main fraud check kar rahi hoon, please details dekhein.", "extracted_params": {}}

User: "Border tax kya hai?"
{"intent": "border_tax", "ui_action": "show_border_tax", "response_text": "Border tax ki jaankari show kar rahi hoon.", "extracted_params": {}}

User: "Ok, thank you"
{"intent": "end", "ui_action": "show_end", "response_text": "Shukriya! Aapki yatra mangalmay ho.", "extracted_params": {}}

User: "Can you change my bank account number?"
{"intent": "information", "ui_action": "show_info", "response_text": "Iske liye please aap CabsWale support team se baat karein.", "extracted_params": {}}
`

// buildContext renders the driver profile sections the model sees before each utterance.
func buildContext(p driver.Profile, loc driver.Location) string {
	var sections []string

	basic := []string{"- Name: " + p.Name}
	if p.Gender != "" {
		basic = append(basic, "- Gender: "+p.Gender)
	}
	if p.City != "" {
		basic = append(basic, "- City: "+p.City)
	}
	if p.Age != nil {
		basic = append(basic, "- Age: "+strconv.Itoa(*p.Age))
	}
	if p.Married != nil || p.Children != nil {
		married := "Not set"
		if p.Married != nil {
			married = yesNo(*p.Married)
		}
		children := "Not set"
		if p.Children != nil {
			children = strconv.Itoa(*p.Children)
		}
		basic = append(basic, fmt.Sprintf("- Married: %s, Children: %s", married, children))
	}
	basic = append(basic,
		fmt.Sprintf("- Vehicle: %s (%s)", orNotSet(p.VehicleType), orNotSet(p.VehicleNumber)),
		fmt.Sprintf("- Current Location: (%v, %v)", loc.Latitude, loc.Longitude),
	)
	sections = append(sections, "Driver Context:\n"+strings.Join(basic, "\n"))

	var verification []string
	verification = appendFlag(verification, "Profile Verified", p.ProfileVerified)
	verification = appendFlag(verification, "Aadhaar Verified", p.IsAadhaarVerified)
	verification = appendFlag(verification, "DL Verified", p.IsDLVerified)
	if p.Fraud != nil {
		reports := 0
		if p.FraudReports != nil {
			reports = *p.FraudReports
		}
		verification = append(verification, fmt.Sprintf("- Fraud Reported: %s (Reports: %d)", yesNo(*p.Fraud), reports))
	}
	sections = appendSection(sections, "Verification Status", verification)

	var stats []string
	stats = appendInt(stats, "Profile Visits", p.ProfileVisits)
	if p.ConnectionCount != nil {
		stats = appendInt(stats, "Connections", p.ConnectionCount)
	} else if n, ok := count(p.Connections); ok {
		stats = append(stats, "- Connections: "+strconv.Itoa(n))
	}
	if p.TotalEarnings != nil {
		stats = append(stats, "- Total Earnings: "+strconv.FormatFloat(*p.TotalEarnings, 'f', -1, 64))
	}
	stats = appendInt(stats, "Confirmed Trips", p.ConfirmedTrips)
	stats = appendInt(stats, "Customer Calls", p.CustomerCalls)
	stats = appendInt(stats, "Quotations", p.QuotationsCount)
	stats = appendInt(stats, "Customers", p.CustomersCount)
	if n, ok := count(p.RecentCalls); ok {
		stats = append(stats, "- Recent Calls: "+strconv.Itoa(n))
	}
	sections = appendSection(sections, "Stats", stats)

	var avail []string
	avail = appendFlag(avail, "Available for Customer Duty", p.IsAvailableForCustomerDuty)
	if len(p.TripTypes) > 0 {
		avail = append(avail, "- Trip Types: "+strings.Join(p.TripTypes, ", "))
	}
	if p.CustomerDutyCity != "" {
		avail = append(avail, "- Customer Duty City: "+p.CustomerDutyCity)
	}
	avail = appendFlag(avail, "Premium", p.IsPremium)
	if s := p.PremiumDriverStatus; s != nil {
		line := "- Premium Driver: " + yesNo(s.PremiumDriver)
		if s.CompletionPercentage != nil {
			line += fmt.Sprintf(" (%v%%)", *s.CompletionPercentage)
		}
		if n, ok := count(s.CompletedCriteria); ok {
			line += ", Criteria: " + strconv.Itoa(n)
		}
		avail = append(avail, line)
	}
	if line := onboarded(p.Onboarded); line != "" {
		avail = append(avail, line)
	}
	if l := p.Leads; l != nil {
		avail = append(avail, fmt.Sprintf("- Leads: Available: %d, Exchange: %d, Duties: %d", l.Available, l.Exchange, l.Duties))
	}
	sections = appendSection(sections, "Availability", avail)

	var prefs []string
	prefs = appendFlag(prefs, "Smoking Allowed", p.SmokingAllowedInside)
	prefs = appendFlag(prefs, "Pet Allowed", p.IsPetAllowed)
	prefs = appendFlag(prefs, "Available for Personal Car", p.AvailableForCustomersPersonalCar)
	switch v := p.AvailableForPartTimeFullTime.(type) {
	case bool:
		prefs = append(prefs, "- Available Part Time/Full Time: "+yesNo(v))
	case string:
		prefs = append(prefs, "- Available Part Time/Full Time: "+v)
	}
	prefs = appendFlag(prefs, "Available for Events/Weddings", p.AvailableForDrivingInEventWedding)
	prefs = appendFlag(prefs, "Handicapped Persons Allowed", p.AllowHandicappedPersons)
	sections = appendSection(sections, "Preferences", prefs)

	if len(p.Languages) > 0 {
		sections = append(sections, "Languages: "+strings.Join(p.Languages, ", "))
	}
	if len(p.VerifiedVehicles) > 0 {
		sections = append(sections, fmt.Sprintf("Verified Vehicles: %v", p.VerifiedVehicles))
	}
	if len(p.Routes) > 0 {
		sections = append(sections, fmt.Sprintf("Routes: %v", p.Routes))
	}
	if p.Bio != "" {
		sections = append(sections, "Bio: "+p.Bio)
	}

	return strings.Join(sections, "\n\n") + "\n"
}

func appendSection(sections []string, title string, lines []string) []string {
	if len(lines) == 0 {
		return sections
	}
	return append(sections, title+":\n"+strings.Join(lines, "\n"))
}

func appendFlag(lines []string, label string, v *bool) []string {
	if v == nil {
		return lines
	}
	return append(lines, "- "+label+": "+yesNo(*v))
}

func appendInt(lines []string, label string, v *int) []string {
	if v == nil {
		return lines
	}
	return append(lines, "- "+label+": "+strconv.Itoa(*v))
}

// count reads a field the client sends either as a number or as a list.
func count(v any) (int, bool) {
	switch x := v.(type) {
	case float64:
		return int(x), true
	case int:
		return x, true
	case []any:
		return len(x), true
	default:
		return 0, false
	}
}

func onboarded(v any) string {
	switch x := v.(type) {
	case bool:
		return "- Onboarded: " + yesNo(x)
	case map[string]any:
		at, _ := x["at"].(string)
		if at == "" {
			at = "Unknown"
		}
		return "- Onboarded: Yes (at " + at + ")"
	default:
		return ""
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func orNotSet(s string) string {
	if s == "" {
		return "Not set"
	}
	return s
}
