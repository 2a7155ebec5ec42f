package qa

// Case is one end-to-end scenario: a user query plus the workers the
// dispatcher is expected to involve and keywords the final answer should
// mention.
type Case struct {
	ID              string
	Description     string
	Query           string
	ExpectedWorkers []string
	ExpectedContent []string
}

// Cases is the full scenario suite. IDs are stable so single cases can be
// re-run with the -case flag.
var Cases = []Case{
	{
		ID:              "TC-001",
		Description:     "Full travel guide with flights, activities and weather",
		Query:           "I want to travel to Madrid for 3 days. Find available flights, cultural activities in the city and the weather forecast so I can plan each day.",
		ExpectedWorkers: []string{"flight", "activity", "weather"},
		ExpectedContent: []string{"Madrid", "flight", "activit", "weather", "forecast", "cultur"},
	},
	{
		ID:              "TC-002",
		Description:     "Trip planning with budget and currency conversion",
		Query:           "I need to plan a trip to Barcelona. Find flights, gastronomy activities, and convert the total prices to Argentine pesos so I know how much the trip will cost.",
		ExpectedWorkers: []string{"flight", "activity", "budget"},
		ExpectedContent: []string{"Barcelona", "flight", "activit", "gastronomy", "pesos", "ARS"},
	},
	{
		ID:              "TC-003",
		Description:     "Complete guide using every worker",
		Query:           "Help me plan a trip to Paris. I need: available flights from Buenos Aires, culture and art activities, the weather forecast for the next 5 days, and all costs converted to Argentine pesos for my budget.",
		ExpectedWorkers: []string{"flight", "activity", "weather", "budget"},
		ExpectedContent: []string{"Paris", "flight", "activit", "cultur", "weather", "forecast", "pesos", "ARS"},
	},
	{
		ID:              "TC-MA-001",
		Description:     "Coordinated planning with an optimized itinerary",
		Query:           "I want to travel to Madrid for 4 days. I need: available flights, cultural and gastronomy activities, the weather forecast, and an optimized daily itinerary that accounts for the weather.",
		ExpectedWorkers: []string{"flight", "activity", "weather"},
		ExpectedContent: []string{"Madrid", "itinerary", "day", "optimized", "weather"},
	},
	{
		ID:              "TC-MA-002",
		Description:     "Personalized recommendations with budget optimization",
		Query:           "I have a $2000 USD budget for a 5-day trip to Barcelona. I need personalized activity recommendations that fit my budget, and an optimized split of the money across flights, activities, food and other expenses.",
		ExpectedWorkers: []string{"flight", "activity", "budget"},
		ExpectedContent: []string{"Barcelona", "budget", "recommendation", "optimized"},
	},
	{
		ID:              "TC-MA-003",
		Description:     "Full plan coordinating all four workers",
		Query:           "Plan a complete 3-day trip to Paris. Find cheap flights (max $800), cultural and gastronomy activities, the weather forecast, an optimized daily itinerary, and personalized recommendations given that I prefer cultural activities and have a limited budget.",
		ExpectedWorkers: []string{"flight", "activity", "weather", "budget"},
		ExpectedContent: []string{"Paris", "flight", "activit", "itinerary", "recommendation", "budget"},
	},
	{
		ID:              "TC-MA-004",
		Description:     "Itinerary with weather and route optimization",
		Query:           "I am traveling to New York for 5 days. I want a daily itinerary covering culture and adventure activities, the weather forecast for each day so outdoor activities land on sunny days, and an optimized route that minimizes travel between activities.",
		ExpectedWorkers: []string{"activity", "weather"},
		ExpectedContent: []string{"New York", "itinerary", "day", "weather", "optimized", "route"},
	},
	{
		ID:              "TC-MA-005",
		Description:     "Value-ranked recommendations with conversion",
		Query:           "I am planning a trip to Rome. Give me the best activity recommendations: I prefer culture and gastronomy, I have a $500 budget for activities, and I want to know which offer the best value for money. Also convert everything to Argentine pesos.",
		ExpectedWorkers: []string{"activity", "budget"},
		ExpectedContent: []string{"Rome", "recommendation", "budget", "value", "pesos"},
	},
	{
		ID:              "TC-MA-006",
		Description:     "Complex multi-constraint planning",
		Query:           "I need to plan a 6-day trip to London with these constraints: total budget of $3000 USD, I prefer cultural and gastronomy activities, I want an itinerary that accounts for the weather, and I need the budget optimized across flights, activities, food and other expenses. Convert all costs to Argentine pesos.",
		ExpectedWorkers: []string{"flight", "activity", "weather", "budget"},
		ExpectedContent: []string{"London", "budget", "itinerary", "optimized", "weather", "pesos"},
	},
	{
		ID:              "TC-MA-007",
		Description:     "Option comparison and selection",
		Query:           "Compare flight options to Miami, find adventure and beach activities, and give me personalized recommendations given that I have 4 days and want to maximize outdoor activities according to the weather.",
		ExpectedWorkers: []string{"flight", "activity", "weather"},
		ExpectedContent: []string{"Miami", "flight", "activit", "recommendation", "weather"},
	},
}

// CaseByID returns the case with the given ID, or false.
func CaseByID(id string) (Case, bool) {
	for _, c := range Cases {
		if c.ID == id {
			return c, true
		}
	}
	return Case{}, false
}
