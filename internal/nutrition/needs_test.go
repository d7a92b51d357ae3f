package nutrition

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avery-dunn/nutriguide/internal/models"
)

func TestDailyNeedsMale(t *testing.T) {
	u := &models.User{
		Age:           30,
		WeightKG:      80,
		HeightCM:      180,
		Gender:        "male",
		ActivityLevel: "moderate",
		Goal:          "maintain",
	}
	calories, protein, carbs, fat := DailyNeeds(u)

	// BMR = 10*80 + 6.25*180 - 5*30 + 5 = 1780; TDEE = 1780 * 1.55 = 2759.
	require.Equal(t, 2759.0, calories)
	require.Equal(t, 176.0, protein)
	require.Equal(t, 77.0, fat)
	// carbs = (2759 - (176*4 + 77*9)) / 4
	require.Equal(t, 341.0, carbs)
}

func TestDailyNeedsFemaleLoseWeight(t *testing.T) {
	u := &models.User{
		Age:           25,
		WeightKG:      60,
		HeightCM:      165,
		Gender:        "female",
		ActivityLevel: "light",
		Goal:          "lose",
	}
	calories, _, _, _ := DailyNeeds(u)

	// BMR = 600 + 1031.25 - 125 - 161 = 1345.25; TDEE = 1345.25*1.375 - 500.
	require.Equal(t, 1350.0, calories)
}

func TestDailyNeedsGainAddsSurplus(t *testing.T) {
	base := &models.User{Age: 30, WeightKG: 80, HeightCM: 180, Gender: "male", ActivityLevel: "moderate", Goal: "maintain"}
	gain := &models.User{Age: 30, WeightKG: 80, HeightCM: 180, Gender: "male", ActivityLevel: "moderate", Goal: "gain"}

	baseCal, _, _, _ := DailyNeeds(base)
	gainCal, _, _, _ := DailyNeeds(gain)
	require.Equal(t, baseCal+500, gainCal)
}

func TestDailyNeedsDefaultsForEmptyProfile(t *testing.T) {
	u := &models.User{}
	calories, protein, _, _ := DailyNeeds(u)

	// Defaults: 70 kg, 170 cm, age 30, non-male, moderate activity.
	// BMR = 700 + 1062.5 - 150 - 161 = 1451.5; TDEE = 1451.5 * 1.55.
	require.Equal(t, 2250.0, calories)
	require.Equal(t, 154.0, protein)
}

func TestDailyNeedsUnknownActivityFallsBackToModerate(t *testing.T) {
	a := &models.User{Age: 30, WeightKG: 80, HeightCM: 180, Gender: "male", ActivityLevel: "couch", Goal: "maintain"}
	b := &models.User{Age: 30, WeightKG: 80, HeightCM: 180, Gender: "male", ActivityLevel: "moderate", Goal: "maintain"}

	aCal, _, _, _ := DailyNeeds(a)
	bCal, _, _, _ := DailyNeeds(b)
	require.Equal(t, bCal, aCal)
}

func TestApplyWritesTargets(t *testing.T) {
	u := &models.User{Age: 30, WeightKG: 80, HeightCM: 180, Gender: "male", ActivityLevel: "moderate", Goal: "maintain"}
	Apply(u)
	require.Equal(t, 2759.0, u.DailyCalories)
	require.NotZero(t, u.DailyProtein)
	require.NotZero(t, u.DailyCarbs)
	require.NotZero(t, u.DailyFat)
}
