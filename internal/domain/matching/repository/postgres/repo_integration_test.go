//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/radu-bors/Clique-backend/config"
	catent "github.com/radu-bors/Clique-backend/internal/domain/catalog/entities"
	catpg "github.com/radu-bors/Clique-backend/internal/domain/catalog/repository/postgres"
	dirent "github.com/radu-bors/Clique-backend/internal/domain/directory/entities"
	dirpg "github.com/radu-bors/Clique-backend/internal/domain/directory/repository/postgres"
	evtent "github.com/radu-bors/Clique-backend/internal/domain/event/entities"
	evtpg "github.com/radu-bors/Clique-backend/internal/domain/event/repository/postgres"
	evtbusiness "github.com/radu-bors/Clique-backend/internal/domain/event/usecase/business"
	"github.com/radu-bors/Clique-backend/internal/domain/matching/entities"
	matchpg "github.com/radu-bors/Clique-backend/internal/domain/matching/repository/postgres"
	"github.com/radu-bors/Clique-backend/internal/domain/matching/usecase/business"
	"github.com/radu-bors/Clique-backend/internal/infrastructure/database"
	"github.com/radu-bors/Clique-backend/internal/repository/memory"
	pkgerrors "github.com/radu-bors/Clique-backend/pkg/errors"
	"github.com/radu-bors/Clique-backend/pkg/point"
	"github.com/radu-bors/Clique-backend/pkg/retry"
)

// openTestDB connects to TEST_DATABASE_DSN and applies migrations.
//
// Run with: TEST_DATABASE_DSN=postgres://... go test -tags=integration ./internal/domain/matching/repository/postgres/...
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if testing.Short() || dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db, &config.DatabaseConfig{
		DBName:         "clique_test",
		MigrationsPath: "file://../../../../../migrations",
	}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type scenario struct {
	events  *evtbusiness.UseCase
	matches *business.UseCase
	repo    *matchpg.Repository
	a, b    uuid.UUID
	event   uuid.UUID
}

func newScenario(t *testing.T, db *gorm.DB) *scenario {
	t.Helper()
	ctx := context.Background()

	users := dirpg.NewRepository(db)
	activities := catpg.NewRepository(db)
	publisher := &memory.Publisher{}

	s := &scenario{a: uuid.New(), b: uuid.New()}
	for uid, gender := range map[uuid.UUID]dirent.Gender{s.a: dirent.GenderMale, s.b: dirent.GenderFemale} {
		require.NoError(t, users.Create(ctx, &dirent.User{
			UID:       uid,
			Name:      "it",
			Birthdate: time.Now().AddDate(-25, 0, -1).UTC().Truncate(24 * time.Hour),
			Gender:    gender,
			Location:  point.Point{X: 52.5, Y: 13.4},
		}))
	}

	activity := catent.Activity{ActivityID: uuid.New(), ActivityName: "bouldering"}
	require.NoError(t, activities.Create(ctx, &activity))

	s.events = evtbusiness.NewUseCase(evtpg.NewRepository(db), users, activities, publisher, retry.Policy{Retries: 3}, zerolog.Nop())
	var err error
	s.event, err = s.events.CreateEvent(ctx, s.a, activity.ActivityID, evtent.Constraints{
		Location:    point.Point{X: 52.5, Y: 13.4},
		MinAge:      18,
		MaxAge:      40,
		PrefGenders: []string{"female"},
	})
	require.NoError(t, err)

	s.repo = matchpg.NewRepository(db).(*matchpg.Repository)
	s.matches = business.NewUseCase(s.repo, evtpg.NewRepository(db), users, s.events, publisher,
		business.Options{Retry: retry.Policy{Retries: 10, Backoff: 5 * time.Millisecond}}, zerolog.Nop())
	return s
}

// TestConcurrentPromotion_Integration races interest, invites and reciprocation on one
// triple across connections; exactly one row and one channel may result.
func TestConcurrentPromotion_Integration(t *testing.T) {
	db := openTestDB(t)
	s := newScenario(t, db)
	ctx := context.Background()

	const n = 12
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		chatIDs = map[uuid.UUID]struct{}{}
		errs    []error
	)
	record := func(out entities.Outcome, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errs = append(errs, err)
			return
		}
		if out.ChatID != nil {
			chatIDs[*out.ChatID] = struct{}{}
		}
	}

	for i := 0; i < n; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			record(s.matches.ExpressInterest(ctx, s.event, s.b))
		}()
		go func() {
			defer wg.Done()
			record(s.matches.Invite(ctx, s.event, s.b, s.a, s.a))
		}()
		go func() {
			defer wg.Done()
			out, err := s.matches.Reciprocate(ctx, s.event, s.b, s.a, s.a)
			var notFound *pkgerrors.NotFoundError
			if errors.As(err, &notFound) {
				// reciprocating before any interest exists is a legal refusal
				return
			}
			record(out, err)
		}()
	}
	wg.Wait()

	assert.Empty(t, errs)
	require.Len(t, chatIDs, 1, "every caller must observe the same channel")

	key := entities.Key{EventID: s.event, Creator: s.a, Participant: s.b}
	var rows int64
	require.NoError(t, db.Model(&entities.Match{}).
		Where("event_id = ? AND creator = ? AND participant = ?", key.EventID, key.Creator, key.Participant).
		Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	m, err := s.repo.GetByKey(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, entities.StateMatched, m.State())
	for id := range chatIDs {
		assert.Equal(t, id, *m.ChatID)
	}
}

// TestConcurrentBlock_Integration keeps the first blocker when both parties block at once.
func TestConcurrentBlock_Integration(t *testing.T) {
	db := openTestDB(t)
	s := newScenario(t, db)
	ctx := context.Background()

	_, err := s.matches.ExpressInterest(ctx, s.event, s.b)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, by := range []uuid.UUID{s.a, s.b, s.a, s.b} {
		wg.Add(1)
		go func(by uuid.UUID) {
			defer wg.Done()
			_, err := s.matches.Block(ctx, s.event, s.a, s.b, by)
			assert.NoError(t, err)
		}(by)
	}
	wg.Wait()

	m, err := s.repo.GetByKey(ctx, entities.Key{EventID: s.event, Creator: s.a, Participant: s.b})
	require.NoError(t, err)
	assert.Equal(t, entities.StateBlocked, m.State())
	require.NotNil(t, m.ChatBlock)
	assert.Contains(t, []string{s.a.String(), s.b.String()}, *m.ChatBlock)
}
