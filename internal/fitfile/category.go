package fitfile

import (
	"strings"

	"github.com/muktihari/fit/profile/typedef"
)

// categoryKeywords is checked in order; the first substring match wins, so
// more specific names come first.
var categoryKeywords = []struct {
	substr   string
	category typedef.ExerciseCategory
	name     string
}{
	{"bench", typedef.ExerciseCategoryBenchPress, "Bench Press"},
	{"deadlift", typedef.ExerciseCategoryDeadlift, "Deadlift"},
	{"squat", typedef.ExerciseCategorySquat, "Squat"},
	{"lunge", typedef.ExerciseCategoryLunge, "Lunge"},
	{"leg curl", typedef.ExerciseCategoryLegCurl, "Leg Curl"},
	{"calf", typedef.ExerciseCategoryCalfRaise, "Calf Raise"},
	{"overhead press", typedef.ExerciseCategoryShoulderPress, "Shoulder Press"},
	{"shoulder press", typedef.ExerciseCategoryShoulderPress, "Shoulder Press"},
	{"lateral raise", typedef.ExerciseCategoryLateralRaise, "Lateral Raise"},
	{"shrug", typedef.ExerciseCategoryShrug, "Shrug"},
	{"pull up", typedef.ExerciseCategoryPullUp, "Pull Up"},
	{"pull-up", typedef.ExerciseCategoryPullUp, "Pull Up"},
	{"chin", typedef.ExerciseCategoryPullUp, "Pull Up"},
	{"row", typedef.ExerciseCategoryRow, "Row"},
	{"push up", typedef.ExerciseCategoryPushUp, "Push Up"},
	{"push-up", typedef.ExerciseCategoryPushUp, "Push Up"},
	{"fly", typedef.ExerciseCategoryFlye, "Flye"},
	{"curl", typedef.ExerciseCategoryCurl, "Curl"},
	{"tricep", typedef.ExerciseCategoryTricepsExtension, "Triceps Extension"},
	{"plank", typedef.ExerciseCategoryPlank, "Plank"},
	{"crunch", typedef.ExerciseCategoryCrunch, "Crunch"},
	{"sit up", typedef.ExerciseCategorySitUp, "Sit Up"},
	{"leg raise", typedef.ExerciseCategoryLegRaise, "Leg Raise"},
	{"run", typedef.ExerciseCategoryRun, "Run"},
	{"bike", typedef.ExerciseCategoryCardio, "Cardio"},
	{"cycl", typedef.ExerciseCategoryCardio, "Cardio"},
	{"swim", typedef.ExerciseCategoryCardio, "Cardio"},
}

// Category maps an exercise name to its FIT exercise category.
func Category(name string) typedef.ExerciseCategory {
	lower := strings.ToLower(name)
	for _, kw := range categoryKeywords {
		if strings.Contains(lower, kw.substr) {
			return kw.category
		}
	}
	return typedef.ExerciseCategoryUnknown
}

// CategoryName is a display name for a FIT category, used when a file
// carries no exercise titles.
func CategoryName(c typedef.ExerciseCategory) string {
	for _, kw := range categoryKeywords {
		if kw.category == c {
			return kw.name
		}
	}
	return "Exercise"
}
