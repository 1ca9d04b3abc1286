package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	catent "github.com/radu-bors/Clique-backend/internal/domain/catalog/entities"
	caterrors "github.com/radu-bors/Clique-backend/internal/domain/catalog/errors"
	dirent "github.com/radu-bors/Clique-backend/internal/domain/directory/entities"
	direrrors "github.com/radu-bors/Clique-backend/internal/domain/directory/errors"
)

// UserRepository implements the directory repository contract.
type UserRepository struct {
	store *Store
}

func (r *UserRepository) Create(ctx context.Context, user *dirent.User) error {
	return r.store.transaction(func(t *tables) error {
		if _, exists := t.users[user.UID]; exists {
			return direrrors.ErrUserAlreadyExists
		}
		t.users[user.UID] = *user
		return nil
	})
}

func (r *UserRepository) GetByID(ctx context.Context, uid uuid.UUID) (*dirent.User, error) {
	var (
		user dirent.User
		ok   bool
	)
	r.store.read(func(t *tables) {
		user, ok = t.users[uid]
	})
	if !ok {
		return nil, direrrors.ErrUserNotFound
	}
	return &user, nil
}

func (r *UserRepository) TouchLastSeen(ctx context.Context, uid uuid.UUID, at time.Time) error {
	return r.store.transaction(func(t *tables) error {
		user, ok := t.users[uid]
		if !ok {
			return direrrors.ErrUserNotFound
		}
		at := at
		user.LastOnline = &at
		t.users[uid] = user
		return nil
	})
}

// ActivityRepository implements the catalog repository contract.
type ActivityRepository struct {
	store *Store
}

func (r *ActivityRepository) Create(ctx context.Context, activity *catent.Activity) error {
	return r.store.transaction(func(t *tables) error {
		if _, exists := t.activities[activity.ActivityID]; exists {
			return caterrors.ErrActivityAlreadyExists
		}
		t.activities[activity.ActivityID] = *activity
		t.activityOrder = append(t.activityOrder, activity.ActivityID)
		return nil
	})
}

func (r *ActivityRepository) GetByID(ctx context.Context, id uuid.UUID) (*catent.Activity, error) {
	var (
		activity catent.Activity
		ok       bool
	)
	r.store.read(func(t *tables) {
		activity, ok = t.activities[id]
	})
	if !ok {
		return nil, caterrors.ErrActivityNotFound
	}
	return &activity, nil
}

func (r *ActivityRepository) List(ctx context.Context) ([]catent.Activity, error) {
	var out []catent.Activity
	r.store.read(func(t *tables) {
		out = make([]catent.Activity, 0, len(t.activityOrder))
		for _, id := range t.activityOrder {
			out = append(out, t.activities[id])
		}
	})
	return out, nil
}
