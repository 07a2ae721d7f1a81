package goals

import "github.com/fdg312/health-diary/internal/storage"

// Presentation is how a goal type is shown to the user.
type Presentation struct {
	Label       string `json:"label"`
	DefaultUnit string `json:"default_unit"`
	Emoji       string `json:"emoji"`
	Color       string `json:"color"`
}

var presentations = map[storage.GoalType]Presentation{
	storage.GoalWeightLoss: {Label: "Weight Loss", DefaultUnit: "kg", Emoji: "🎯", Color: "#E57373"},
	storage.GoalCalories:   {Label: "Calorie Goal", DefaultUnit: "kcal", Emoji: "🔥", Color: "#FF9800"},
	storage.GoalExercise:   {Label: "Exercise", DefaultUnit: "min", Emoji: "💪", Color: "#4CAF50"},
	storage.GoalWater:      {Label: "Water Intake", DefaultUnit: "oz", Emoji: "💧", Color: "#2196F3"},
	storage.GoalSteps:      {Label: "Daily Steps", DefaultUnit: "steps", Emoji: "🚶", Color: "#9C27B0"},
	storage.GoalNutrition:  {Label: "Nutrition", DefaultUnit: "g", Emoji: "🥗", Color: "#8BC34A"},
}

// PresentationFor returns the display attributes of t. Unknown types get a
// neutral fallback.
func PresentationFor(t storage.GoalType) Presentation {
	if p, ok := presentations[t]; ok {
		return p
	}
	return Presentation{Label: string(t), Emoji: "⭐", Color: "#9E9E9E"}
}
