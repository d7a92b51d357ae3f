// Package nutrition derives daily calorie and macro targets from a
// user's profile using the Mifflin-St Jeor equation.
package nutrition

import (
	"math"
	"strings"

	"github.com/avery-dunn/nutriguide/internal/models"
)

var activityMultipliers = map[string]float64{
	"sedentary": 1.2,
	"light":     1.375,
	"moderate":  1.55,
	"active":    1.725,
	"extreme":   1.9,
}

// DailyNeeds computes calorie, protein, carb and fat targets. Missing
// profile fields fall back to 70 kg, 170 cm, age 30 and a moderate
// activity level.
func DailyNeeds(u *models.User) (calories, protein, carbs, fat float64) {
	weight := orDefault(u.WeightKG, 70)
	height := orDefault(u.HeightCM, 170)
	age := u.Age
	if age == 0 {
		age = 30
	}

	bmr := 10*weight + 6.25*height - 5*float64(age)
	if strings.EqualFold(u.Gender, "male") {
		bmr += 5
	} else {
		bmr -= 161
	}

	mult, ok := activityMultipliers[strings.ToLower(u.ActivityLevel)]
	if !ok {
		mult = activityMultipliers["moderate"]
	}
	tdee := bmr * mult

	switch strings.ToLower(u.Goal) {
	case "lose":
		tdee -= 500
	case "gain":
		tdee += 500
	}

	calories = math.Round(tdee)
	protein = math.Round(weight * 2.2)
	fat = math.Round(calories * 0.25 / 9)
	carbs = math.Round((calories - (protein*4 + fat*9)) / 4)
	return calories, protein, carbs, fat
}

// Apply recomputes the targets and writes them onto the user.
func Apply(u *models.User) {
	u.DailyCalories, u.DailyProtein, u.DailyCarbs, u.DailyFat = DailyNeeds(u)
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
