package workout

import (
	"sort"
	"strings"
)

// Muscle groups used for coverage-based achievements.
const (
	MuscleChest     = "chest"
	MuscleBack      = "back"
	MuscleLegs      = "legs"
	MuscleShoulders = "shoulders"
	MuscleArms      = "arms"
	MuscleCore      = "core"
	MuscleCardio    = "cardio"
)

// AllMuscleGroups lists every group in display order.
var AllMuscleGroups = []string{
	MuscleChest, MuscleBack, MuscleLegs, MuscleShoulders, MuscleArms, MuscleCore, MuscleCardio,
}

// CatalogEntry is a known exercise.
type CatalogEntry struct {
	Name    string
	Muscles []string
}

// Catalog is the fixed list of exercises offered for logging. Free-form names
// are allowed; they are matched against catalogKeywords for muscle groups.
var Catalog = []CatalogEntry{
	{"Bench Press", []string{MuscleChest, MuscleArms}},
	{"Incline Bench Press", []string{MuscleChest, MuscleShoulders}},
	{"Push Up", []string{MuscleChest, MuscleArms}},
	{"Chest Fly", []string{MuscleChest}},
	{"Deadlift", []string{MuscleBack, MuscleLegs}},
	{"Pull Up", []string{MuscleBack, MuscleArms}},
	{"Barbell Row", []string{MuscleBack}},
	{"Lat Pulldown", []string{MuscleBack}},
	{"Squat", []string{MuscleLegs}},
	{"Front Squat", []string{MuscleLegs, MuscleCore}},
	{"Lunge", []string{MuscleLegs}},
	{"Leg Press", []string{MuscleLegs}},
	{"Calf Raise", []string{MuscleLegs}},
	{"Overhead Press", []string{MuscleShoulders, MuscleArms}},
	{"Lateral Raise", []string{MuscleShoulders}},
	{"Bicep Curl", []string{MuscleArms}},
	{"Tricep Extension", []string{MuscleArms}},
	{"Dip", []string{MuscleArms, MuscleChest}},
	{"Plank", []string{MuscleCore}},
	{"Crunch", []string{MuscleCore}},
	{"Running", []string{MuscleCardio, MuscleLegs}},
	{"Cycling", []string{MuscleCardio, MuscleLegs}},
	{"Rowing", []string{MuscleCardio, MuscleBack}},
}

// catalogKeywords maps lower-case substrings to muscle groups for names
// outside the catalog.
var catalogKeywords = []struct {
	substr  string
	muscles []string
}{
	{"bench", []string{MuscleChest}},
	{"chest", []string{MuscleChest}},
	{"push", []string{MuscleChest}},
	{"fly", []string{MuscleChest}},
	{"deadlift", []string{MuscleBack, MuscleLegs}},
	{"row", []string{MuscleBack}},
	{"pull", []string{MuscleBack}},
	{"lat", []string{MuscleBack}},
	{"squat", []string{MuscleLegs}},
	{"lunge", []string{MuscleLegs}},
	{"leg", []string{MuscleLegs}},
	{"calf", []string{MuscleLegs}},
	{"press", []string{MuscleShoulders}},
	{"shoulder", []string{MuscleShoulders}},
	{"raise", []string{MuscleShoulders}},
	{"curl", []string{MuscleArms}},
	{"tricep", []string{MuscleArms}},
	{"bicep", []string{MuscleArms}},
	{"dip", []string{MuscleArms}},
	{"plank", []string{MuscleCore}},
	{"crunch", []string{MuscleCore}},
	{"ab", []string{MuscleCore}},
	{"run", []string{MuscleCardio}},
	{"cycl", []string{MuscleCardio}},
	{"bike", []string{MuscleCardio}},
	{"swim", []string{MuscleCardio}},
}

// Lookup returns the catalog entry matching name case-insensitively.
func Lookup(name string) (CatalogEntry, bool) {
	for _, e := range Catalog {
		if strings.EqualFold(e.Name, strings.TrimSpace(name)) {
			return e, true
		}
	}
	return CatalogEntry{}, false
}

// MuscleGroups returns the groups an exercise works, sorted. Unknown names
// fall back to keyword matching and may return nothing.
func MuscleGroups(name string) []string {
	if e, ok := Lookup(name); ok {
		out := append([]string(nil), e.Muscles...)
		sort.Strings(out)
		return out
	}
	lower := strings.ToLower(name)
	set := map[string]bool{}
	for _, kw := range catalogKeywords {
		if strings.Contains(lower, kw.substr) {
			for _, m := range kw.muscles {
				set[m] = true
			}
		}
	}
	out := make([]string, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// CanonicalName returns the catalog spelling of name when known, or the
// trimmed input otherwise.
func CanonicalName(name string) string {
	if e, ok := Lookup(name); ok {
		return e.Name
	}
	return strings.TrimSpace(name)
}
