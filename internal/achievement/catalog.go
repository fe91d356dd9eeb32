package achievement

import (
	"fmt"
	"time"

	"github.com/rnwolfe/grind/internal/workout"
)

func totalWorkouts(n int) Rule {
	return Rule{
		ID:          fmt.Sprintf("total_workouts_%d", n),
		Name:        fmt.Sprintf("%d Workouts", n),
		Description: fmt.Sprintf("Log %d workouts", n),
		Category:    CategoryMilestone,
		Predicate:   func(s Summary) bool { return s.Count >= n },
	}
}

func streakDays(n int, name string) Rule {
	return Rule{
		ID:          fmt.Sprintf("streak_%d", n),
		Name:        name,
		Description: fmt.Sprintf("Work out %d days in a row", n),
		Category:    CategoryConsistency,
		Predicate:   func(s Summary) bool { return s.LongestStreak >= n },
	}
}

func exerciseFan(id, name, substr string) Rule {
	return Rule{
		ID:          id,
		Name:        name,
		Description: fmt.Sprintf("Include %s in a workout", substr),
		Category:    CategoryExercise,
		Predicate:   func(s Summary) bool { return s.WorkoutsMatching(substr) > 0 },
	}
}

// defaultRules is the built-in rule table.
func defaultRules() []Rule {
	return []Rule{
		{
			ID:          "first_workout",
			Name:        "First Rep",
			Description: "Log your first workout",
			Category:    CategoryMilestone,
			Predicate:   func(s Summary) bool { return s.Count >= 1 },
		},
		totalWorkouts(5),
		totalWorkouts(10),
		totalWorkouts(20),
		totalWorkouts(50),
		totalWorkouts(100),
		streakDays(3, "Warming Up"),
		streakDays(7, "Week Warrior"),
		streakDays(30, "Unstoppable"),
		{
			ID:          "volume_1000",
			Name:        "Ton Lifter",
			Description: "Move 1,000 kg in a single workout",
			Category:    CategoryStrength,
			Predicate:   func(s Summary) bool { return s.MaxWorkoutVolume >= 1000 },
		},
		{
			ID:          "volume_10000",
			Name:        "Tonnage Club",
			Description: "Move 10,000 kg across all workouts",
			Category:    CategoryStrength,
			Predicate:   func(s Summary) bool { return s.TotalVolume >= 10000 },
		},
		{
			ID:          "heavy_lifter_100",
			Name:        "Triple Digits",
			Description: "Lift 100 kg or more in a single set",
			Category:    CategoryStrength,
			Predicate:   func(s Summary) bool { return s.HeaviestSet >= 100 },
		},
		{
			ID:          "marathon_session",
			Name:        "Marathon Session",
			Description: "Train for two hours in one workout",
			Category:    CategoryLifestyle,
			Predicate:   func(s Summary) bool { return s.LongestWorkout >= 2*time.Hour },
		},
		{
			ID:          "early_bird",
			Name:        "Early Bird",
			Description: "Start a workout before 7 am",
			Category:    CategoryLifestyle,
			Predicate:   func(s Summary) bool { return s.EarliestHour >= 0 && s.EarliestHour < 7 },
		},
		{
			ID:          "night_owl",
			Name:        "Night Owl",
			Description: "Start a workout at 9 pm or later",
			Category:    CategoryLifestyle,
			Predicate:   func(s Summary) bool { return s.LatestHour >= 21 },
		},
		exerciseFan("bench_press", "Bench Warmer", "bench"),
		exerciseFan("squat", "Squat Squad", "squat"),
		exerciseFan("deadlift", "Dead Serious", "deadlift"),
		{
			ID:          "leg_day",
			Name:        "Never Skip Leg Day",
			Description: "Train legs in 5 different workouts",
			Category:    CategoryExercise,
			Predicate:   func(s Summary) bool { return s.MuscleWorkouts[workout.MuscleLegs] >= 5 },
		},
		{
			ID:          "full_body",
			Name:        "Full Body",
			Description: "Hit 4 muscle groups in a single workout",
			Category:    CategoryExercise,
			Predicate:   func(s Summary) bool { return s.MaxGroupsInWorkout >= 4 },
		},
		{
			ID:          "all_rounder",
			Name:        "All-Rounder",
			Description: "Train every muscle group at least once",
			Category:    CategoryExercise,
			Predicate:   func(s Summary) bool { return len(s.MuscleGroups) >= len(workout.AllMuscleGroups) },
		},
		{
			ID:          "variety_10",
			Name:        "Variety Pack",
			Description: "Perform 10 different exercises",
			Category:    CategoryExercise,
			Predicate:   func(s Summary) bool { return len(s.ExerciseNames) >= 10 },
		},
		{
			ID:          "weekend_warrior",
			Name:        "Weekend Warrior",
			Description: "Work out on both Saturday and Sunday of a weekend",
			Category:    CategoryConsistency,
			Predicate:   func(s Summary) bool { return s.FullWeekends >= 1 },
		},
	}
}

// Default returns a fresh catalog holding the built-in rules.
func Default() *Catalog {
	c := NewCatalog()
	for _, r := range defaultRules() {
		if err := c.Register(r); err != nil {
			panic(err)
		}
	}
	return c
}
