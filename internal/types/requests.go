package types

// ProfileInput carries the body metrics a target computation needs. Profile
// updates replace the stored metrics wholesale rather than patching fields,
// since a stale field would silently skew the recomputed targets.
type ProfileInput struct {
	WeightKg      float64 `json:"weight_kg" binding:"required"`
	HeightCm      float64 `json:"height_cm" binding:"required"`
	Age           int     `json:"age" binding:"required"`
	Sex           string  `json:"sex" binding:"required"`
	ActivityLevel string  `json:"activity_level" binding:"required"`
	Goal          string  `json:"goal" binding:"required"`
}

// RegisterRequest creates an account with its initial profile, so targets
// exist from onboarding.
type RegisterRequest struct {
	Name     string       `json:"name" binding:"required"`
	Email    string       `json:"email" binding:"required,email"`
	Password string       `json:"password" binding:"required,min=8"`
	Profile  ProfileInput `json:"profile" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ManualMacrosInput is a caller-entered macro triple. Calories are derived
// server-side, never accepted.
type ManualMacrosInput struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fats    float64 `json:"fats"`
}

// LogMealRequest submits a meal by free-text description, manual macros, or
// both (description wins when analysis succeeds).
type LogMealRequest struct {
	MealType     string             `json:"meal_type" binding:"required"`
	Date         string             `json:"date"`
	Description  string             `json:"description"`
	ManualMacros *ManualMacrosInput `json:"manual_macros"`
}
