package nutrition

import "fmt"

// MealType is the slot a meal counts toward.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

var validMealTypes = map[MealType]bool{
	MealBreakfast: true,
	MealLunch:     true,
	MealDinner:    true,
	MealSnack:     true,
}

// Source records where a meal's macros came from.
type Source string

const (
	SourceAI     Source = "ai"
	SourceManual Source = "manual"
)

// Per-meal sanity bounds. Values beyond these are accepted but flagged as
// unusually large, since legitimate large meals exist.
const (
	maxMealProtein = 80.0
	maxMealCarbs   = 150.0
	maxMealFats    = 80.0
)

// ManualMacros is a caller-supplied macro triple. Calories are never
// accepted as input.
type ManualMacros struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fats    float64 `json:"fats"`
}

// AnalysisResult is the estimate returned by the analysis collaborator.
type AnalysisResult struct {
	Protein     float64  `json:"protein"`
	Carbs       float64  `json:"carbs"`
	Fats        float64  `json:"fats"`
	Ingredients []string `json:"ingredients"`
}

// Submission is a meal as submitted by the caller.
type Submission struct {
	MealType    MealType      `json:"meal_type"`
	Date        string        `json:"date"`
	Description string        `json:"description"`
	Manual      *ManualMacros `json:"manual_macros"`
}

// ResolvedMeal is the finalized macro set for a submission.
type ResolvedMeal struct {
	Macros      Macros
	Source      Source
	Ingredients []string
}

// Resolve produces the finalized macros for a submission. An analysis result,
// when present, wins over manual macros. Neither available is an error;
// out-of-bounds but non-negative values only warn.
func Resolve(sub Submission, analysis *AnalysisResult) (*ResolvedMeal, []string, error) {
	if !validMealTypes[sub.MealType] {
		return nil, nil, ValidationError{Field: "meal_type", Message: "must be breakfast, lunch, dinner or snack"}
	}

	var (
		protein, carbs, fats float64
		source               Source
		ingredients          []string
	)
	switch {
	case analysis != nil:
		protein, carbs, fats = analysis.Protein, analysis.Carbs, analysis.Fats
		source = SourceAI
		ingredients = analysis.Ingredients
	case sub.Manual != nil:
		protein, carbs, fats = sub.Manual.Protein, sub.Manual.Carbs, sub.Manual.Fats
		source = SourceManual
	default:
		return nil, nil, ErrIncompleteSubmission
	}

	if err := validateMacro("protein", protein); err != nil {
		return nil, nil, err
	}
	if err := validateMacro("carbs", carbs); err != nil {
		return nil, nil, err
	}
	if err := validateMacro("fats", fats); err != nil {
		return nil, nil, err
	}

	var warnings []string
	if protein > maxMealProtein {
		warnings = append(warnings, fmt.Sprintf("unusually large protein amount: %.0f g (typical meals stay under %.0f g)", protein, maxMealProtein))
	}
	if carbs > maxMealCarbs {
		warnings = append(warnings, fmt.Sprintf("unusually large carb amount: %.0f g (typical meals stay under %.0f g)", carbs, maxMealCarbs))
	}
	if fats > maxMealFats {
		warnings = append(warnings, fmt.Sprintf("unusually large fat amount: %.0f g (typical meals stay under %.0f g)", fats, maxMealFats))
	}

	return &ResolvedMeal{
		Macros: Macros{
			Protein:  protein,
			Carbs:    carbs,
			Fats:     fats,
			Calories: DeriveCalories(protein, carbs, fats),
		},
		Source:      source,
		Ingredients: ingredients,
	}, warnings, nil
}

func validateMacro(field string, value float64) error {
	if value < 0 {
		return ValidationError{Field: field, Message: "must be non-negative"}
	}
	return nil
}
