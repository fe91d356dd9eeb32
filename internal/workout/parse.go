package workout

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rnwolfe/grind/internal/day"
)

// Upper bounds for a single parsed exercise line.
const (
	MaxSets = 100
	MaxReps = 1000
)

// Accepted exercise line formats:
//
//	Bench Press 3x10x60     3 sets of 10 reps at 60 kg
//	Pull Up 4x8             4 sets of 8 reps, bodyweight
//	Squat 5x5@100           same as 5x5x100
//	Deadlift 5/3 140        slash form
var (
	patternX     = regexp.MustCompile(`^(.+?)\s+(\d+)[xX×](\d+)(?:\s*[xX×@]\s*(\d+(?:[.,]\d+)?))?\s*(?:kg)?$`)
	patternSlash = regexp.MustCompile(`^(.+?)\s+(\d+)/(\d+)(?:\s+(\d+(?:[.,]\d+)?))?\s*(?:kg)?$`)
)

// ParseExercise parses one exercise line into an Exercise with uniform sets.
func ParseExercise(line string) (Exercise, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Exercise{}, fmt.Errorf("%w: empty exercise line", day.ErrInvalidInput)
	}

	m := patternX.FindStringSubmatch(line)
	if m == nil {
		m = patternSlash.FindStringSubmatch(line)
	}
	if m == nil {
		return Exercise{}, fmt.Errorf("%w: cannot parse %q (want e.g. \"Bench Press 3x10x60\")", day.ErrInvalidInput, line)
	}

	sets, err := strconv.Atoi(m[2])
	if err != nil || sets > MaxSets {
		return Exercise{}, fmt.Errorf("%w: %q has more than %d sets", day.ErrInvalidInput, line, MaxSets)
	}
	if sets == 0 {
		return Exercise{}, fmt.Errorf("%w: %q has zero sets", day.ErrInvalidInput, line)
	}
	reps, err := strconv.Atoi(m[3])
	if err != nil || reps > MaxReps {
		return Exercise{}, fmt.Errorf("%w: %q has more than %d reps per set", day.ErrInvalidInput, line, MaxReps)
	}
	var weight float64
	if m[4] != "" {
		weight, err = parseWeight(m[4])
		if err != nil {
			return Exercise{}, fmt.Errorf("%w: bad weight %q", day.ErrInvalidInput, m[4])
		}
	}

	ex := Exercise{Name: CanonicalName(m[1])}
	for i := 0; i < sets; i++ {
		ex.Sets = append(ex.Sets, Set{Reps: reps, Weight: weight})
	}
	return ex, nil
}

// ParseSet parses "10x60", "10@60" or "10" (bodyweight) into a Set.
func ParseSet(s string) (Set, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "kg"))
	sep := strings.IndexAny(s, "xX×@")
	repStr, weightStr := s, ""
	if sep >= 0 {
		_, size := utf8.DecodeRuneInString(s[sep:])
		repStr, weightStr = s[:sep], s[sep+size:]
	}
	reps, err := strconv.Atoi(strings.TrimSpace(repStr))
	if err != nil || reps < 0 || reps > MaxReps {
		return Set{}, fmt.Errorf("%w: bad reps in %q", day.ErrInvalidInput, s)
	}
	var weight float64
	if weightStr != "" {
		weight, err = parseWeight(weightStr)
		if err != nil {
			return Set{}, fmt.Errorf("%w: bad weight in %q", day.ErrInvalidInput, s)
		}
	}
	return Set{Reps: reps, Weight: weight}, nil
}

// parseWeight accepts a decimal comma and rejects negative or non-finite values.
func parseWeight(s string) (float64, error) {
	w, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(s), ",", ".", 1), 64)
	if err != nil {
		return 0, err
	}
	if !validWeight(w) {
		return 0, fmt.Errorf("weight %v out of range", w)
	}
	return w, nil
}

func validWeight(w float64) bool {
	return w >= 0 && !math.IsInf(w, 0) && !math.IsNaN(w)
}
