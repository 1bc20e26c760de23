package validation

// Config is the single surface for every plausibility threshold. Nothing in
// the validator logic hard-codes a number; tuning happens here.
type Config struct {
	// Acceptable cost of one meal, in lira.
	MinMealCost float64
	AvgMealCost float64 // used for budget derivation
	MaxMealCost float64

	// Headcount thresholds. The small range is where clause-number false
	// positives live; anomalous and critical flag implausibly large counts.
	SmallPersonnelMin  int
	SmallPersonnelMax  int
	AnomalousPersonnel int
	CriticalPersonnel  int

	// Contract duration, in days.
	MinDays      int
	MaxDays      int
	CriticalDays int

	// Meals served per person per day.
	MinDailyMeals      int
	MaxDailyMeals      int
	StandardDailyMeals int

	// Upper bound for budget / (personnel x days).
	MaxBudgetPerPersonDay float64

	// Clause-reference language. "{n}" is replaced with the suspect value
	// before matching against the cited evidence string.
	ClauseRefPatterns []string
}

// DefaultConfig returns thresholds tuned for Turkish catering tenders.
func DefaultConfig() Config {
	return Config{
		MinMealCost: 20,
		AvgMealCost: 150,
		MaxMealCost: 1000,

		SmallPersonnelMin:  1,
		SmallPersonnelMax:  30,
		AnomalousPersonnel: 5000,
		CriticalPersonnel:  50000,

		MinDays:      7,
		MaxDays:      1095,
		CriticalDays: 3650,

		MinDailyMeals:      1,
		MaxDailyMeals:      5,
		StandardDailyMeals: 3,

		MaxBudgetPerPersonDay: 2500,

		ClauseRefPatterns: []string{
			`(?i)\bmadde\s*[:.]?\s*{n}\b`,
			`(?i)\b{n}\s*\.?\s*madde\b`,
			`(?i)\b{n}\s*(?:inci|nci|üncü|ncı)\s+madde\b`,
			`(?i)\bfıkra\s*[:.]?\s*{n}\b`,
			`(?i)\b{n}\s*\.?\s*fıkra\b`,
			`(?i)\bbent\s*[:.]?\s*{n}\b`,
		},
	}
}

func (c *Config) defaults() {
	d := DefaultConfig()
	if c.MinMealCost <= 0 {
		c.MinMealCost = d.MinMealCost
	}
	if c.AvgMealCost <= 0 {
		c.AvgMealCost = d.AvgMealCost
	}
	if c.MaxMealCost <= 0 {
		c.MaxMealCost = d.MaxMealCost
	}
	if c.SmallPersonnelMin <= 0 {
		c.SmallPersonnelMin = d.SmallPersonnelMin
	}
	if c.SmallPersonnelMax <= 0 {
		c.SmallPersonnelMax = d.SmallPersonnelMax
	}
	if c.AnomalousPersonnel <= 0 {
		c.AnomalousPersonnel = d.AnomalousPersonnel
	}
	if c.CriticalPersonnel <= 0 {
		c.CriticalPersonnel = d.CriticalPersonnel
	}
	if c.MinDays <= 0 {
		c.MinDays = d.MinDays
	}
	if c.MaxDays <= 0 {
		c.MaxDays = d.MaxDays
	}
	if c.CriticalDays <= 0 {
		c.CriticalDays = d.CriticalDays
	}
	if c.MinDailyMeals <= 0 {
		c.MinDailyMeals = d.MinDailyMeals
	}
	if c.MaxDailyMeals <= 0 {
		c.MaxDailyMeals = d.MaxDailyMeals
	}
	if c.StandardDailyMeals <= 0 {
		c.StandardDailyMeals = d.StandardDailyMeals
	}
	if c.MaxBudgetPerPersonDay <= 0 {
		c.MaxBudgetPerPersonDay = d.MaxBudgetPerPersonDay
	}
	if len(c.ClauseRefPatterns) == 0 {
		c.ClauseRefPatterns = d.ClauseRefPatterns
	}
}
