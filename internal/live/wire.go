package live

// Wire types for the Ergast-compatible response envelope. The upstream
// serialises every number as a string.

type mrData struct {
	MRData struct {
		RaceTable      wireRaceTable      `json:"RaceTable"`
		StandingsTable wireStandingsTable `json:"StandingsTable"`
	} `json:"MRData"`
}

type wireRaceTable struct {
	Season string     `json:"season"`
	Races  []wireRace `json:"Races"`
}

type wireRace struct {
	Season   string       `json:"season"`
	Round    string       `json:"round"`
	RaceName string       `json:"raceName"`
	Circuit  wireCircuit  `json:"Circuit"`
	Date     string       `json:"date"`
	Time     string       `json:"time"`
	Results  []wireResult `json:"Results"`
}

type wireCircuit struct {
	CircuitID   string `json:"circuitId"`
	CircuitName string `json:"circuitName"`
	Location    struct {
		Locality string `json:"locality"`
		Country  string `json:"country"`
	} `json:"Location"`
}

type wireResult struct {
	Position    string          `json:"position"`
	Points      string          `json:"points"`
	Grid        string          `json:"grid"`
	Status      string          `json:"status"`
	Driver      wireDriver      `json:"Driver"`
	Constructor wireConstructor `json:"Constructor"`
}

type wireDriver struct {
	GivenName   string `json:"givenName"`
	FamilyName  string `json:"familyName"`
	Code        string `json:"code"`
	Nationality string `json:"nationality"`
}

type wireConstructor struct {
	Name        string `json:"name"`
	Nationality string `json:"nationality"`
}

type wireStandingsTable struct {
	StandingsLists []wireStandingsList `json:"StandingsLists"`
}

type wireStandingsList struct {
	Season               string                    `json:"season"`
	DriverStandings      []wireDriverStanding      `json:"DriverStandings"`
	ConstructorStandings []wireConstructorStanding `json:"ConstructorStandings"`
}

type wireDriverStanding struct {
	Position     string            `json:"position"`
	Points       string            `json:"points"`
	Wins         string            `json:"wins"`
	Driver       wireDriver        `json:"Driver"`
	Constructors []wireConstructor `json:"Constructors"`
}

type wireConstructorStanding struct {
	Position    string          `json:"position"`
	Points      string          `json:"points"`
	Wins        string          `json:"wins"`
	Constructor wireConstructor `json:"Constructor"`
}
