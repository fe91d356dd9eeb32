// Package cloud stores tracker records in Google Cloud Firestore.
//
// Records live under the owning user's document:
//
//	users/{uid}/workouts/{id}
//	users/{uid}/habits/{id}
//	users/{uid}/achievements/snapshot
package cloud

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rnwolfe/grind/internal/achievement"
	"github.com/rnwolfe/grind/internal/habit"
	"github.com/rnwolfe/grind/internal/tracker"
	"github.com/rnwolfe/grind/internal/workout"
)

const (
	usersCollection    = "users"
	workoutsCollection = "workouts"
	habitsCollection   = "habits"
	achievementsDoc    = "snapshot"
)

// Repo implements tracker.Repository on Firestore.
type Repo struct {
	Client *firestore.Client
}

var _ tracker.Repository = (*Repo)(nil)

// NewClient connects to Firestore for projectID. FIRESTORE_EMULATOR_HOST
// is honoured by the client library.
func NewClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("firestore project is not configured (set store.firestore_project)")
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore init: %w", err)
	}
	return client, nil
}

// NewRepo wraps client.
func NewRepo(client *firestore.Client) *Repo {
	return &Repo{Client: client}
}

func (r *Repo) user(uid string) *firestore.DocumentRef {
	return r.Client.Collection(usersCollection).Doc(uid)
}

func (r *Repo) workouts(uid string) *firestore.CollectionRef {
	return r.user(uid).Collection(workoutsCollection)
}

func (r *Repo) habits(uid string) *firestore.CollectionRef {
	return r.user(uid).Collection(habitsCollection)
}

func (r *Repo) snapshotRef(uid string) *firestore.DocumentRef {
	return r.user(uid).Collection("achievements").Doc(achievementsDoc)
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// findByID locates a document by id across every user's sub-collection.
func (r *Repo) findByID(ctx context.Context, collection, kind, id string) (*firestore.DocumentSnapshot, error) {
	docs, err := r.Client.CollectionGroup(collection).Where("id", "==", id).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%s %s: %w", kind, id, tracker.ErrNotFound)
	}
	return docs[0], nil
}

// checkOwner fails with ErrNotOwner when id already lives under another user.
func (r *Repo) checkOwner(ctx context.Context, collection, kind, id, userID string) error {
	doc, err := r.findByID(ctx, collection, kind, id)
	if errors.Is(err, tracker.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if owner := doc.Ref.Parent.Parent.ID; owner != userID {
		return fmt.Errorf("%s %s: %w", kind, id, tracker.ErrNotOwner)
	}
	return nil
}

// --- Workouts ---

func (r *Repo) FetchWorkouts(ctx context.Context, userID string) ([]workout.Record, error) {
	docs, err := r.workouts(userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	var out []workout.Record
	for _, d := range docs {
		w := FirestoreToWorkout(d.Data())
		if w.ID == "" {
			w.ID = d.Ref.ID
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *Repo) GetWorkout(ctx context.Context, id string) (workout.Record, error) {
	doc, err := r.findByID(ctx, workoutsCollection, "workout", id)
	if err != nil {
		return workout.Record{}, err
	}
	return FirestoreToWorkout(doc.Data()), nil
}

func (r *Repo) SaveWorkout(ctx context.Context, w workout.Record) error {
	if err := r.checkOwner(ctx, workoutsCollection, "workout", w.ID, w.UserID); err != nil {
		return err
	}
	_, err := r.workouts(w.UserID).Doc(w.ID).Set(ctx, WorkoutToFirestore(w))
	return err
}

func (r *Repo) RenameWorkout(ctx context.Context, id, name string) error {
	doc, err := r.findByID(ctx, workoutsCollection, "workout", id)
	if err != nil {
		return err
	}
	_, err = doc.Ref.Update(ctx, []firestore.Update{{Path: "name", Value: name}})
	return err
}

func (r *Repo) DeleteWorkout(ctx context.Context, id string) error {
	doc, err := r.findByID(ctx, workoutsCollection, "workout", id)
	if err != nil {
		return err
	}
	_, err = doc.Ref.Delete(ctx)
	return err
}

// --- Habits ---

func (r *Repo) FetchHabits(ctx context.Context, userID string) ([]habit.Record, error) {
	docs, err := r.habits(userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	var out []habit.Record
	for _, d := range docs {
		h := FirestoreToHabit(d.Data())
		if h.ID == "" {
			h.ID = d.Ref.ID
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *Repo) SaveHabit(ctx context.Context, h habit.Record) error {
	if err := r.checkOwner(ctx, habitsCollection, "habit", h.ID, h.UserID); err != nil {
		return err
	}
	_, err := r.habits(h.UserID).Doc(h.ID).Set(ctx, HabitToFirestore(h))
	return err
}

func (r *Repo) DeleteHabit(ctx context.Context, id string) error {
	doc, err := r.findByID(ctx, habitsCollection, "habit", id)
	if err != nil {
		return err
	}
	_, err = doc.Ref.Delete(ctx)
	return err
}

// --- Achievements ---

func (r *Repo) LoadAchievements(ctx context.Context, userID string) (achievement.Snapshot, error) {
	doc, err := r.snapshotRef(userID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return achievement.Snapshot{}, nil
		}
		return nil, err
	}
	return FirestoreToSnapshot(doc.Data()), nil
}

// SaveAchievements merges snap into the stored snapshot inside a
// transaction, keeping every stored unlock and the earliest time per id.
func (r *Repo) SaveAchievements(ctx context.Context, userID string, snap achievement.Snapshot) error {
	ref := r.snapshotRef(userID)
	return r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		prev := achievement.Snapshot{}
		doc, err := tx.Get(ref)
		switch {
		case err == nil:
			prev = FirestoreToSnapshot(doc.Data())
		case !isNotFound(err):
			return err
		}
		return tx.Set(ref, SnapshotToFirestore(mergeEarliest(prev, snap)))
	})
}
