// Package fitfile converts workouts to and from Garmin FIT activity files.
//
// A workout becomes one strength-training session. Each exercise gets an
// ExerciseTitle message carrying its name, and each set points back at its
// exercise through the set's workout step index.
package fitfile

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/muktihari/fit/decoder"
	"github.com/muktihari/fit/encoder"
	"github.com/muktihari/fit/profile/basetype"
	"github.com/muktihari/fit/profile/mesgdef"
	"github.com/muktihari/fit/profile/typedef"
	"github.com/muktihari/fit/proto"

	"github.com/rnwolfe/grind/internal/day"
	"github.com/rnwolfe/grind/internal/workout"
)

// Encode writes w as a FIT activity file.
func Encode(w workout.Record) ([]byte, error) {
	if w.Date.IsZero() {
		return nil, fmt.Errorf("%w: workout has no date", day.ErrInvalidInput)
	}
	start := w.Date.UTC()
	elapsed := uint32(w.DurationSeconds) * 1000
	end := start.Add(w.Duration())

	fit := &proto.FIT{Messages: []proto.Message{}}

	fileID := mesgdef.NewFileId(nil).
		SetType(typedef.FileActivity).
		SetManufacturer(typedef.ManufacturerDevelopment).
		SetProduct(1).
		SetTimeCreated(start)
	fit.Messages = append(fit.Messages, fileID.ToMesg(nil))

	for i, e := range w.Exercises {
		title := mesgdef.NewExerciseTitle(nil).
			SetMessageIndex(typedef.MessageIndex(i)).
			SetExerciseCategory(Category(e.Name)).
			SetWktStepName([]string{e.Name})
		fit.Messages = append(fit.Messages, title.ToMesg(nil))
	}

	setIndex := 0
	for i, e := range w.Exercises {
		for _, s := range e.Sets {
			msg := mesgdef.NewSet(nil).
				SetTimestamp(start).
				SetStartTime(start).
				SetCategory([]typedef.ExerciseCategory{Category(e.Name)}).
				SetSetType(typedef.SetTypeActive).
				SetWktStepIndex(typedef.MessageIndex(i)).
				SetMessageIndex(typedef.MessageIndex(setIndex))
			if s.Reps > 0 {
				msg.SetRepetitions(uint16(s.Reps))
			}
			if s.Weight > 0 {
				msg.SetWeightScaled(s.Weight)
			}
			fit.Messages = append(fit.Messages, msg.ToMesg(nil))
			setIndex++
		}
	}

	lap := mesgdef.NewLap(nil).
		SetTimestamp(end).
		SetStartTime(start).
		SetSport(typedef.SportTraining).
		SetMessageIndex(0).
		SetTotalElapsedTime(elapsed).
		SetTotalTimerTime(elapsed)
	fit.Messages = append(fit.Messages, lap.ToMesg(nil))

	session := mesgdef.NewSession(nil).
		SetTimestamp(end).
		SetStartTime(start).
		SetSport(typedef.SportTraining).
		SetSubSport(typedef.SubSportStrengthTraining).
		SetTotalElapsedTime(elapsed).
		SetTotalTimerTime(elapsed)
	fit.Messages = append(fit.Messages, session.ToMesg(nil))

	activity := mesgdef.NewActivity(nil).
		SetTimestamp(end).
		SetType(typedef.ActivityManual).
		SetNumSessions(1)
	fit.Messages = append(fit.Messages, activity.ToMesg(nil))

	var buf bytes.Buffer
	if err := encoder.New(&buf).Encode(fit); err != nil {
		return nil, fmt.Errorf("encoding FIT file: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reads a FIT activity into a workout owned by userID. The record has
// no ID; callers assign one before saving.
func Decode(r io.Reader, userID string) (workout.Record, error) {
	fit, err := decoder.New(r).Decode()
	if err != nil {
		return workout.Record{}, fmt.Errorf("decoding FIT file: %w", err)
	}

	w := workout.Record{UserID: userID, Source: workout.SourceFIT}
	var created time.Time
	titles := map[typedef.MessageIndex]string{}
	var sets []*mesgdef.Set

	for i := range fit.Messages {
		msg := &fit.Messages[i]
		switch msg.Num {
		case typedef.MesgNumFileId:
			created = mesgdef.NewFileId(msg).TimeCreated
		case typedef.MesgNumExerciseTitle:
			t := mesgdef.NewExerciseTitle(msg)
			if len(t.WktStepName) > 0 && strings.TrimSpace(t.WktStepName[0]) != "" {
				titles[t.MessageIndex] = strings.TrimSpace(t.WktStepName[0])
			}
		case typedef.MesgNumSet:
			s := mesgdef.NewSet(msg)
			if s.SetType == typedef.SetTypeRest {
				continue
			}
			sets = append(sets, s)
		case typedef.MesgNumSession:
			s := mesgdef.NewSession(msg)
			if w.Date.IsZero() && !s.StartTime.IsZero() {
				w.Date = s.StartTime.UTC()
			}
			if s.TotalElapsedTime != basetype.Uint32Invalid {
				w.DurationSeconds += int(s.TotalElapsedTime / 1000)
			}
		}
	}
	if w.Date.IsZero() {
		w.Date = created.UTC()
	}
	if w.Date.IsZero() {
		return workout.Record{}, fmt.Errorf("%w: FIT file has no start time", day.ErrInvalidInput)
	}

	w.Exercises = groupSets(sets, titles)
	return w, nil
}

// groupSets turns the flat set list back into exercises. Sets are grouped
// by workout step when present, otherwise by consecutive category.
func groupSets(sets []*mesgdef.Set, titles map[typedef.MessageIndex]string) []workout.Exercise {
	var out []workout.Exercise
	lastKey := ""
	for _, s := range sets {
		cat := typedef.ExerciseCategoryUnknown
		if len(s.Category) > 0 {
			cat = s.Category[0]
		}
		name, ok := titles[s.WktStepIndex]
		if !ok || s.WktStepIndex == typedef.MessageIndexInvalid {
			name = CategoryName(cat)
		}
		key := fmt.Sprintf("%d/%s", s.WktStepIndex, name)
		if key != lastKey {
			out = append(out, workout.Exercise{Name: name})
			lastKey = key
		}

		var set workout.Set
		if s.Repetitions != basetype.Uint16Invalid {
			set.Reps = int(s.Repetitions)
		}
		if s.Weight != basetype.Uint16Invalid {
			set.Weight = s.WeightScaled()
		}
		last := &out[len(out)-1]
		last.Sets = append(last.Sets, set)
	}
	return out
}
