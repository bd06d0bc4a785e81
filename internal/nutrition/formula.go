package nutrition

import (
	"fmt"
	"time"
)

// Sex is the biological sex used by the BMR formula.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ActivityLevel describes habitual activity for TDEE estimation.
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityActive    ActivityLevel = "active"
	ActivityAthlete   ActivityLevel = "athlete"
)

// Goal is the user's body-composition goal.
type Goal string

const (
	GoalBulk     Goal = "bulk"
	GoalMaintain Goal = "maintain"
	GoalCut      Goal = "cut"
)

// activityMultipliers maps activity level to its TDEE multiplier. This is the
// single source of truth for valid activity levels and is also used for
// profile validation.
var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary: 1.20,
	ActivityLight:     1.375,
	ActivityModerate:  1.55,
	ActivityActive:    1.725,
	ActivityAthlete:   1.90,
}

// goalCalorieModifiers adjusts TDEE toward the goal: surplus for bulk,
// deficit for cut.
var goalCalorieModifiers = map[Goal]float64{
	GoalBulk:     1.15,
	GoalMaintain: 1.0,
	GoalCut:      0.85,
}

// proteinGoalMultipliers is grams of protein per kg of body weight by goal.
var proteinGoalMultipliers = map[Goal]float64{
	GoalBulk:     2.2,
	GoalMaintain: 2.0,
	GoalCut:      2.4,
}

// proteinActivityBonus is the additional g/kg of protein by activity level.
var proteinActivityBonus = map[ActivityLevel]float64{
	ActivitySedentary: 0,
	ActivityLight:     0.1,
	ActivityModerate:  0.2,
	ActivityActive:    0.3,
	ActivityAthlete:   0.4,
}

// carbActivityMultipliers is grams of carbs per kg of body weight by activity level.
var carbActivityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary: 2.0,
	ActivityLight:     3.0,
	ActivityModerate:  4.0,
	ActivityActive:    6.0,
	ActivityAthlete:   8.0,
}

// carbGoalModifiers scales the carb allotment toward the goal.
var carbGoalModifiers = map[Goal]float64{
	GoalBulk:     1.2,
	GoalMaintain: 1.0,
	GoalCut:      0.8,
}

// Profile validation ranges.
const (
	minWeightKg = 40.0
	maxWeightKg = 200.0
	minHeightCm = 140.0
	maxHeightCm = 220.0
	minAge      = 18
	maxAge      = 80
)

// Caloric density per gram of each macronutrient.
const (
	CaloriesPerGramProtein = 4.0
	CaloriesPerGramCarbs   = 4.0
	CaloriesPerGramFat     = 9.0
)

// fatFloorPerKg is the minimum daily fat intake in g/kg for hormonal health.
const fatFloorPerKg = 0.8

// Sanity clamps applied to computed targets. Raw results outside these
// bounds are clamped and a warning is emitted instead of failing, since the
// profile inputs already passed validation.
const (
	minDailyProtein  = 80.0
	maxDailyProtein  = 400.0
	minDailyCarbs    = 80.0
	maxDailyCarbs    = 800.0
	minDailyFats     = 30.0
	maxDailyFats     = 200.0
	minDailyCalories = 1200.0
	maxDailyCalories = 6000.0
)

// Macros is a macronutrient set in grams with its derived calorie total.
// Calories are always computed as 4p + 4c + 9f, never stored independently.
type Macros struct {
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Calories float64 `json:"calories"`
}

// DeriveCalories returns the calorie total implied by a macro triple.
func DeriveCalories(protein, carbs, fats float64) float64 {
	return protein*CaloriesPerGramProtein + carbs*CaloriesPerGramCarbs + fats*CaloriesPerGramFat
}

// ProfileMetrics is the formula input: body metrics plus goal and activity.
type ProfileMetrics struct {
	WeightKg      float64
	HeightCm      float64
	Age           int
	Sex           Sex
	ActivityLevel ActivityLevel
	Goal          Goal
}

// Targets is a computed daily macro target set.
type Targets struct {
	Protein      float64   `json:"protein"`
	Carbs        float64   `json:"carbs"`
	Fats         float64   `json:"fats"`
	Calories     float64   `json:"calories"`
	CalculatedAt time.Time `json:"calculated_at"`
}

// Validate checks the profile metrics against the supported ranges.
func (p ProfileMetrics) Validate() error {
	if p.WeightKg < minWeightKg || p.WeightKg > maxWeightKg {
		return ValidationError{Field: "weight_kg", Message: fmt.Sprintf("must be between %.0f and %.0f", minWeightKg, maxWeightKg)}
	}
	if p.HeightCm < minHeightCm || p.HeightCm > maxHeightCm {
		return ValidationError{Field: "height_cm", Message: fmt.Sprintf("must be between %.0f and %.0f", minHeightCm, maxHeightCm)}
	}
	if p.Age < minAge || p.Age > maxAge {
		return ValidationError{Field: "age", Message: fmt.Sprintf("must be between %d and %d", minAge, maxAge)}
	}
	if p.Sex != SexMale && p.Sex != SexFemale {
		return ValidationError{Field: "sex", Message: "must be male or female"}
	}
	if _, ok := activityMultipliers[p.ActivityLevel]; !ok {
		return ValidationError{Field: "activity_level", Message: "unknown activity level"}
	}
	if _, ok := goalCalorieModifiers[p.Goal]; !ok {
		return ValidationError{Field: "goal", Message: "unknown goal"}
	}
	return nil
}

// ComputeBMR computes basal metabolic rate via Mifflin-St Jeor.
func ComputeBMR(weightKg, heightCm float64, age int, sex Sex) (float64, error) {
	if weightKg < minWeightKg || weightKg > maxWeightKg {
		return 0, ValidationError{Field: "weight_kg", Message: fmt.Sprintf("must be between %.0f and %.0f", minWeightKg, maxWeightKg)}
	}
	if heightCm < minHeightCm || heightCm > maxHeightCm {
		return 0, ValidationError{Field: "height_cm", Message: fmt.Sprintf("must be between %.0f and %.0f", minHeightCm, maxHeightCm)}
	}
	if age < minAge || age > maxAge {
		return 0, ValidationError{Field: "age", Message: fmt.Sprintf("must be between %d and %d", minAge, maxAge)}
	}
	if sex != SexMale && sex != SexFemale {
		return 0, ValidationError{Field: "sex", Message: "must be male or female"}
	}
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if sex == SexMale {
		bmr += 5
	} else {
		bmr -= 161
	}
	return bmr, nil
}

// ComputeTDEE scales BMR by the activity multiplier.
func ComputeTDEE(bmr float64, level ActivityLevel) (float64, error) {
	mult, ok := activityMultipliers[level]
	if !ok {
		return 0, ValidationError{Field: "activity_level", Message: "unknown activity level"}
	}
	return bmr * mult, nil
}

// ComputeTargets derives daily protein/carb/fat/calorie targets from a
// profile. The returned warnings are advisory and never block computation.
//
// Calories are always recomputed from the final macro triple, so the
// invariant calories == 4p + 4c + 9f holds exactly even when the fat floor
// overrides the goal-adjusted TDEE.
func ComputeTargets(p ProfileMetrics) (*Targets, []string, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}

	bmr, err := ComputeBMR(p.WeightKg, p.HeightCm, p.Age, p.Sex)
	if err != nil {
		return nil, nil, err
	}
	tdee, err := ComputeTDEE(bmr, p.ActivityLevel)
	if err != nil {
		return nil, nil, err
	}
	adjustedCalories := tdee * goalCalorieModifiers[p.Goal]

	protein := p.WeightKg*proteinGoalMultipliers[p.Goal] + p.WeightKg*proteinActivityBonus[p.ActivityLevel]
	carbs := p.WeightKg * carbActivityMultipliers[p.ActivityLevel] * carbGoalModifiers[p.Goal]

	remaining := adjustedCalories - protein*CaloriesPerGramProtein - carbs*CaloriesPerGramCarbs
	fats := remaining / CaloriesPerGramFat
	fatFloor := p.WeightKg * fatFloorPerKg
	if fats < fatFloor {
		// The floor wins over the goal-adjusted calorie figure.
		fats = fatFloor
	}

	var warnings []string

	protein, warnings = clampTarget(protein, minDailyProtein, maxDailyProtein, "protein", warnings)
	carbs, warnings = clampTarget(carbs, minDailyCarbs, maxDailyCarbs, "carbs", warnings)
	fats, warnings = clampTarget(fats, minDailyFats, maxDailyFats, "fats", warnings)

	calories := DeriveCalories(protein, carbs, fats)
	if calories < minDailyCalories || calories > maxDailyCalories {
		// Calories stay derived from the macros; an independent clamp would
		// break the calorie invariant.
		warnings = append(warnings, fmt.Sprintf("daily calories %.0f outside recommended range [%.0f, %.0f]", calories, minDailyCalories, maxDailyCalories))
	}

	if perKg := protein / p.WeightKg; perKg > 3.0 {
		warnings = append(warnings, fmt.Sprintf("protein target %.1f g/kg exceeds 3.0 g/kg", perKg))
	}
	if p.Goal != GoalCut && carbs < 100 {
		warnings = append(warnings, fmt.Sprintf("carb target %.0f g is low for a %s goal", carbs, p.Goal))
	}
	if perKg := fats / p.WeightKg; perKg < 0.6 {
		warnings = append(warnings, fmt.Sprintf("fat target %.1f g/kg is below 0.6 g/kg", perKg))
	}
	if calories < bmr*0.8 {
		warnings = append(warnings, fmt.Sprintf("calorie target %.0f is below 80%% of BMR (%.0f)", calories, bmr))
	}
	if calories > tdee*1.3 {
		warnings = append(warnings, fmt.Sprintf("calorie target %.0f exceeds 130%% of TDEE (%.0f)", calories, tdee))
	}

	return &Targets{
		Protein:      protein,
		Carbs:        carbs,
		Fats:         fats,
		Calories:     calories,
		CalculatedAt: time.Now().UTC(),
	}, warnings, nil
}

func clampTarget(value, min, max float64, name string, warnings []string) (float64, []string) {
	if value < min {
		warnings = append(warnings, fmt.Sprintf("daily %s target %.0f g clamped to minimum %.0f g", name, value, min))
		return min, warnings
	}
	if value > max {
		warnings = append(warnings, fmt.Sprintf("daily %s target %.0f g clamped to maximum %.0f g", name, value, max))
		return max, warnings
	}
	return value, warnings
}
