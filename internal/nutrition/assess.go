package nutrition

import "sort"

// Tier classifies a day's overall target attainment.
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierFair      Tier = "fair"
	TierPoor      Tier = "poor"
)

// Shortfall is how far a single macro is under its target.
type Shortfall struct {
	Macro      string  `json:"macro"`
	Percent    float64 `json:"percent"` // attainment, 0-100
	Remaining  float64 `json:"remaining"`
	TargetUnit string  `json:"target_unit"` // "g" or "kcal"
}

// Assessment is a day's attainment breakdown and quality tier.
type Assessment struct {
	ProteinPercent  float64     `json:"protein_percent"`
	CarbsPercent    float64     `json:"carbs_percent"`
	FatsPercent     float64     `json:"fats_percent"`
	CaloriesPercent float64     `json:"calories_percent"`
	Score           float64     `json:"score"`
	Tier            Tier        `json:"tier"`
	Shortfalls      []Shortfall `json:"shortfalls"`
}

// Assess classifies a day's totals against its targets. Attainment per macro
// is capped at 100%; the overall score is the unweighted mean of the four.
// Tier boundaries are inclusive on the lower floor.
func Assess(totals Macros, targets Targets) *Assessment {
	a := &Assessment{
		ProteinPercent:  attainment(totals.Protein, targets.Protein),
		CarbsPercent:    attainment(totals.Carbs, targets.Carbs),
		FatsPercent:     attainment(totals.Fats, targets.Fats),
		CaloriesPercent: attainment(totals.Calories, targets.Calories),
	}
	a.Score = (a.ProteinPercent + a.CarbsPercent + a.FatsPercent + a.CaloriesPercent) / 4

	switch {
	case a.Score >= 90:
		a.Tier = TierExcellent
	case a.Score >= 75:
		a.Tier = TierGood
	case a.Score >= 60:
		a.Tier = TierFair
	default:
		a.Tier = TierPoor
	}

	a.Shortfalls = rankShortfalls(totals, targets, a)
	return a
}

func attainment(total, target float64) float64 {
	if target <= 0 {
		return 0
	}
	pct := total / target * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// rankShortfalls lists under-target macros ordered by largest attainment gap.
// The strings shown to users are a UI concern; this is the ranked data only.
func rankShortfalls(totals Macros, targets Targets, a *Assessment) []Shortfall {
	candidates := []Shortfall{
		{Macro: "protein", Percent: a.ProteinPercent, Remaining: targets.Protein - totals.Protein, TargetUnit: "g"},
		{Macro: "carbs", Percent: a.CarbsPercent, Remaining: targets.Carbs - totals.Carbs, TargetUnit: "g"},
		{Macro: "fats", Percent: a.FatsPercent, Remaining: targets.Fats - totals.Fats, TargetUnit: "g"},
		{Macro: "calories", Percent: a.CaloriesPercent, Remaining: targets.Calories - totals.Calories, TargetUnit: "kcal"},
	}

	var shortfalls []Shortfall
	for _, c := range candidates {
		if c.Percent < 100 && c.Remaining > 0 {
			shortfalls = append(shortfalls, c)
		}
	}
	sort.SliceStable(shortfalls, func(i, j int) bool {
		return shortfalls[i].Percent < shortfalls[j].Percent
	})
	return shortfalls
}
