package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catent "github.com/radu-bors/Clique-backend/internal/domain/catalog/entities"
	chatdeps "github.com/radu-bors/Clique-backend/internal/domain/chat/deps"
	chatent "github.com/radu-bors/Clique-backend/internal/domain/chat/entities"
	dirent "github.com/radu-bors/Clique-backend/internal/domain/directory/entities"
	direrrors "github.com/radu-bors/Clique-backend/internal/domain/directory/errors"
	evtent "github.com/radu-bors/Clique-backend/internal/domain/event/entities"
	importent "github.com/radu-bors/Clique-backend/internal/domain/importer/entities"
	importerrors "github.com/radu-bors/Clique-backend/internal/domain/importer/errors"
	matchdeps "github.com/radu-bors/Clique-backend/internal/domain/matching/deps"
	matchent "github.com/radu-bors/Clique-backend/internal/domain/matching/entities"
	matcherrors "github.com/radu-bors/Clique-backend/internal/domain/matching/errors"
)

func newUser(gender dirent.Gender) *dirent.User {
	return &dirent.User{
		UID:       uuid.New(),
		Name:      "user",
		Birthdate: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		Gender:    gender,
	}
}

// TestTransaction_RollsBackOnError checks that a failing callback leaves no trace
func TestTransaction_RollsBackOnError(t *testing.T) {
	store := NewStore()
	key := matchent.Key{EventID: uuid.New(), Creator: uuid.New(), Participant: uuid.New()}
	boom := errors.New("boom")

	err := store.Matches().Transaction(context.Background(), func(tx matchdeps.MatchTx) error {
		_, created, err := tx.InsertOrGet(key)
		require.NoError(t, err)
		require.True(t, created)
		require.NoError(t, tx.Promote(key, uuid.New()))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.Matches().GetByKey(context.Background(), key)
	assert.ErrorIs(t, err, matcherrors.ErrMatchNotFound)
}

func TestMatchTx_InsertOrGetReturnsExisting(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	key := matchent.Key{EventID: uuid.New(), Creator: uuid.New(), Participant: uuid.New()}

	for i, wantCreated := range []bool{true, false} {
		err := store.Matches().Transaction(ctx, func(tx matchdeps.MatchTx) error {
			m, created, err := tx.InsertOrGet(key)
			require.NoError(t, err)
			assert.Equal(t, wantCreated, created, "call %d", i)
			assert.Equal(t, matchent.StatePending, m.State())
			return nil
		})
		require.NoError(t, err)
	}

	list, err := store.Matches().ListByUser(ctx, key.Creator)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMatchTx_PromoteIsOneShot(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	key := matchent.Key{EventID: uuid.New(), Creator: uuid.New(), Participant: uuid.New()}
	chatID := uuid.New()

	err := store.Matches().Transaction(ctx, func(tx matchdeps.MatchTx) error {
		if _, _, err := tx.InsertOrGet(key); err != nil {
			return err
		}
		return tx.Promote(key, chatID)
	})
	require.NoError(t, err)

	err = store.Matches().Transaction(ctx, func(tx matchdeps.MatchTx) error {
		return tx.Promote(key, uuid.New())
	})
	require.Error(t, err)

	m, err := store.Matches().GetByChatID(ctx, chatID)
	require.NoError(t, err)
	assert.Equal(t, key, m.Key())
	assert.True(t, m.Mutual)
}

func TestMatchTx_BlockKeepsFirstBlocker(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	key := matchent.Key{EventID: uuid.New(), Creator: uuid.New(), Participant: uuid.New()}

	err := store.Matches().Transaction(ctx, func(tx matchdeps.MatchTx) error {
		if _, _, err := tx.InsertOrGet(key); err != nil {
			return err
		}
		if err := tx.Block(key, key.Creator); err != nil {
			return err
		}
		return tx.Block(key, key.Participant)
	})
	require.NoError(t, err)

	m, err := store.Matches().GetByKey(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, m.ChatBlock)
	assert.Equal(t, key.Creator.String(), *m.ChatBlock)
}

func TestChatRepository_ListPage(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	chatID := uuid.New()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	err := store.Chats().Transaction(ctx, func(tx chatdeps.ChatTx) error {
		// inserted out of order on purpose
		for _, offset := range []int{2, 0, 1, 3} {
			msg := &chatent.Message{ChatID: chatID, ChatText: "m", Datetime: base.Add(time.Duration(offset) * time.Second)}
			if err := tx.Insert(msg); err != nil {
				return err
			}
		}
		last, err := tx.LastTimestamp(chatID)
		require.NoError(t, err)
		assert.Equal(t, base.Add(3*time.Second), last)
		return nil
	})
	require.NoError(t, err)

	page, err := store.Chats().ListPage(ctx, chatID, base.Add(time.Second), true, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, base.Add(time.Second), page[0].Datetime)
	assert.Equal(t, base.Add(2*time.Second), page[1].Datetime)

	page, err = store.Chats().ListPage(ctx, chatID, base.Add(2*time.Second), false, 10)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, base.Add(3*time.Second), page[0].Datetime)
}

func TestChatTx_InsertRejectsDuplicateTimestamp(t *testing.T) {
	store := NewStore()
	msg := &chatent.Message{ChatID: uuid.New(), Datetime: time.Now().UTC()}

	err := store.Chats().Transaction(context.Background(), func(tx chatdeps.ChatTx) error {
		if err := tx.Insert(msg); err != nil {
			return err
		}
		return tx.Insert(msg)
	})
	assert.ErrorIs(t, err, errDuplicateMessage)
}

func TestEventRepository_StreamOpenIsReevaluated(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	initiator := uuid.New()
	event := &evtent.Event{
		EventID:     uuid.New(),
		InitiatedBy: initiator,
		MinAge:      18,
		MaxAge:      40,
		PrefGenders: evtent.GenderSet{dirent.GenderFemale},
		IsOpen:      true,
	}
	require.NoError(t, store.Events().Create(ctx, event))

	seq := store.Events().StreamOpen(ctx, evtent.OpenQuery{Requester: uuid.New(), Age: 25, Gender: dirent.GenderFemale})

	count := func() int {
		n := 0
		for _, err := range seq {
			require.NoError(t, err)
			n++
		}
		return n
	}
	assert.Equal(t, 1, count())

	changed, err := store.Events().Close(ctx, event.EventID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 0, count())

	changed, err = store.Events().Close(ctx, event.EventID)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestUserRepository_TouchLastSeen(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	user := newUser(dirent.GenderOther)
	require.NoError(t, store.Users().Create(ctx, user))
	assert.ErrorIs(t, store.Users().Create(ctx, user), direrrors.ErrUserAlreadyExists)

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, store.Users().TouchLastSeen(ctx, user.UID, at))

	got, err := store.Users().GetByID(ctx, user.UID)
	require.NoError(t, err)
	require.NotNil(t, got.LastOnline)
	assert.Equal(t, at, *got.LastOnline)

	assert.ErrorIs(t, store.Users().TouchLastSeen(ctx, uuid.New(), at), direrrors.ErrUserNotFound)
}

func TestLoader_AbortsWholeBatch(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	a, b := newUser(dirent.GenderMale), newUser(dirent.GenderFemale)

	require.NoError(t, store.Loader().Load(ctx, importent.TableUsers, []any{a}))

	err := store.Loader().Load(ctx, importent.TableUsers, []any{b, a})
	var rowErr *importerrors.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 1, rowErr.Index)
	assert.ErrorIs(t, err, importerrors.ErrDuplicateKey)

	_, err = store.Users().GetByID(ctx, b.UID)
	assert.ErrorIs(t, err, direrrors.ErrUserNotFound)
}

func TestLoader_ChecksForeignKeys(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	user := newUser(dirent.GenderMale)
	activity := &catent.Activity{ActivityID: uuid.New(), ActivityName: "hiking"}

	require.NoError(t, store.Loader().Load(ctx, importent.TableUsers, []any{user}))
	require.NoError(t, store.Loader().Load(ctx, importent.TableActivities, []any{activity}))

	orphan := &evtent.Event{EventID: uuid.New(), ActivityID: uuid.New(), InitiatedBy: user.UID, MinAge: 1, MaxAge: 2}
	err := store.Loader().Load(ctx, importent.TableEvents, []any{orphan})
	assert.ErrorIs(t, err, importerrors.ErrForeignKey)

	err = store.Loader().Load(ctx, importent.TableUsers, []any{activity})
	assert.ErrorIs(t, err, importerrors.ErrInvalidValue)
}
