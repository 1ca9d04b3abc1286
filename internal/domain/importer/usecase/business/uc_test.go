package business

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dirent "github.com/radu-bors/Clique-backend/internal/domain/directory/entities"
	"github.com/radu-bors/Clique-backend/internal/domain/importer/entities"
	importerrors "github.com/radu-bors/Clique-backend/internal/domain/importer/errors"
	matchent "github.com/radu-bors/Clique-backend/internal/domain/matching/entities"
	"github.com/radu-bors/Clique-backend/internal/repository/memory"
	pkgerrors "github.com/radu-bors/Clique-backend/pkg/errors"
	"github.com/radu-bors/Clique-backend/pkg/point"
)

const (
	userA    = "6f1c2f0e-8a47-4a51-9d0b-0d7f5c1e2a01"
	userB    = "6f1c2f0e-8a47-4a51-9d0b-0d7f5c1e2a02"
	activity = "0b7e61a4-3c1d-4f5e-8a90-1b2c3d4e5f60"
	event    = "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
	chat     = "c0ffee00-1111-4222-8333-444455556666"
)

var (
	usersCSV = "\ufeffName,Birthdate,Gender,Location,UID,Last_online\n" +
		"Ana,02-03-1999,female,\"(52.52, 13.40)\"," + userA + ",2024-06-01 10:00:00\n" +
		"Bob,1990-12-31,Male,\"(52.50, 13.30)\"," + userB + ",NULL\n"
	activitiesCSV = "activity_name,activity_id\n" +
		"hiking," + activity + "\n"
	eventsCSV = "event_id,activity_id,initiated_by,location,min_age,max_age,pref_genders,description,is_open,initiated_on\n" +
		event + "," + activity + "," + userB + ",\"(52.5, 13.4)\",20,30,\"female,other\",\"Tempelhof, then coffee\",True,2024-06-01 09:30:00\n"
	matchesCSV = "event_id,creator,participant,match,chat_id,chat_block\n" +
		event + "," + userB + "," + userA + ",True," + chat + ",\n"
	chatsCSV = "chat_id,text,datetime,sender,recipient\n" +
		chat + ",hi," + "2024-06-01 11:00:00," + userA + "," + userB + "\n" +
		chat + ",\"hello, Ana\"," + "2024-06-01T11:00:01.5Z," + userB + "," + userA + "\n"
)

func newTestUseCase() (*UseCase, *memory.Store) {
	store := memory.NewStore()
	return NewUseCase(store.Loader(), zerolog.Nop()), store
}

func importAll(t *testing.T, uc *UseCase) {
	t.Helper()

	files := []struct {
		table entities.Table
		data  string
		rows  int
	}{
		{entities.TableUsers, usersCSV, 2},
		{entities.TableActivities, activitiesCSV, 1},
		{entities.TableEvents, eventsCSV, 1},
		{entities.TableMatches, matchesCSV, 1},
		{entities.TableChats, chatsCSV, 2},
	}
	for _, f := range files {
		res, err := uc.ImportFile(context.Background(), f.table, strings.NewReader(f.data))
		require.NoError(t, err, f.table)
		assert.Equal(t, f.rows, res.Rows, f.table)
	}
}

// TestImportFile_LoadsEveryTable loads a consistent dataset in dependency order
func TestImportFile_LoadsEveryTable(t *testing.T) {
	uc, store := newTestUseCase()
	ctx := context.Background()
	importAll(t, uc)

	a, err := store.Users().GetByID(ctx, uuid.MustParse(userA))
	require.NoError(t, err)
	assert.Equal(t, time.Date(1999, 3, 2, 0, 0, 0, 0, time.UTC), a.Birthdate)
	assert.Equal(t, point.Point{X: 52.52, Y: 13.40}, a.Location)
	require.NotNil(t, a.LastOnline)

	b, err := store.Users().GetByID(ctx, uuid.MustParse(userB))
	require.NoError(t, err)
	assert.Equal(t, dirent.GenderMale, b.Gender)
	assert.Nil(t, b.LastOnline)

	e, err := store.Events().GetByID(ctx, uuid.MustParse(event))
	require.NoError(t, err)
	assert.True(t, e.IsOpen)
	assert.Equal(t, "Tempelhof, then coffee", e.Description)
	assert.Equal(t, "female,other", e.PrefGenders.String())

	m, err := store.Matches().GetByKey(ctx, matchent.Key{
		EventID:     uuid.MustParse(event),
		Creator:     uuid.MustParse(userB),
		Participant: uuid.MustParse(userA),
	})
	require.NoError(t, err)
	assert.Equal(t, matchent.StateMatched, m.State())

	msgs, err := store.Chats().ListPage(ctx, uuid.MustParse(chat), time.Time{}, true, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello, Ana", msgs[1].ChatText)
}

// TestImportFile_ReimportFailsOnPrimaryKey checks that loading a file twice never duplicates rows
func TestImportFile_ReimportFailsOnPrimaryKey(t *testing.T) {
	uc, _ := newTestUseCase()
	importAll(t, uc)

	_, err := uc.ImportFile(context.Background(), entities.TableUsers, strings.NewReader(usersCSV))
	var importErr *pkgerrors.ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Equal(t, 1, importErr.Row)
	assert.Equal(t, "users", importErr.Table)
	assert.ErrorIs(t, err, importerrors.ErrDuplicateKey)

	_, err = uc.ImportFile(context.Background(), entities.TableChats, strings.NewReader(chatsCSV))
	assert.ErrorIs(t, err, importerrors.ErrDuplicateKey)
}

func TestImportFile_RollsBackWholeFile(t *testing.T) {
	uc, store := newTestUseCase()
	ctx := context.Background()

	third := uuid.New()
	data := usersCSV + "Cid,1990-01-01,female,\"(1,2)\"," + userA + ",NULL\n" +
		"Dan,1990-01-01,male,\"(1,2)\"," + third.String() + ",NULL\n"

	_, err := uc.ImportFile(ctx, entities.TableUsers, strings.NewReader(data))
	var importErr *pkgerrors.ImportError
	require.ErrorAs(t, err, &importErr)
	assert.Equal(t, 3, importErr.Row)

	for _, id := range []string{userA, userB, third.String()} {
		_, err := store.Users().GetByID(ctx, uuid.MustParse(id))
		assert.Error(t, err, "no row of the file may survive")
	}
}

func TestImportFile_RowErrors(t *testing.T) {
	tests := []struct {
		name   string
		table  entities.Table
		data   string
		row    int
		target error
	}{
		{
			name:   "unknown gender",
			table:  entities.TableUsers,
			data:   "name,birthdate,gender,location,uid,last_online\nAna,1999-01-01,robot,\"(1,2)\"," + userA + ",NULL\n",
			row:    1,
			target: importerrors.ErrInvalidValue,
		},
		{
			name:   "null primary key",
			table:  entities.TableActivities,
			data:   "activity_name,activity_id\nhiking," + activity + "\nchess,NULL\n",
			row:    2,
			target: importerrors.ErrMissingValue,
		},
		{
			name:   "bad date",
			table:  entities.TableUsers,
			data:   "name,birthdate,gender,location,uid,last_online\nAna,31/12/1999,female,\"(1,2)\"," + userA + ",NULL\n",
			row:    1,
			target: importerrors.ErrInvalidValue,
		},
		{
			name:   "inverted age range",
			table:  entities.TableEvents,
			data:   "event_id,activity_id,initiated_by,location,min_age,max_age,pref_genders,description,is_open,initiated_on\n" + event + "," + activity + "," + userB + ",\"(1,2)\",30,20,female,,true,2024-06-01 09:30:00\n",
			row:    1,
			target: importerrors.ErrInvalidValue,
		},
		{
			name:   "missing foreign key",
			table:  entities.TableEvents,
			data:   "event_id,activity_id,initiated_by,location,min_age,max_age,pref_genders,description,is_open,initiated_on\n" + event + "," + activity + "," + userB + ",\"(1,2)\",20,30,female,,true,2024-06-01 09:30:00\n",
			row:    1,
			target: importerrors.ErrForeignKey,
		},
		{
			name:   "chat id on pending record",
			table:  entities.TableMatches,
			data:   "event_id,creator,participant,match,chat_id,chat_block\n" + event + "," + userB + "," + userA + ",False," + chat + ",\n",
			row:    1,
			target: importerrors.ErrInvalidValue,
		},
		{
			name:   "chat block transcript",
			table:  entities.TableMatches,
			data:   "event_id,creator,participant,match,chat_id,chat_block\n" + event + "," + userB + "," + userA + ",True," + chat + ",hi there how are you\n",
			row:    1,
			target: importerrors.ErrInvalidValue,
		},
		{
			name:   "chat block by outsider",
			table:  entities.TableMatches,
			data:   "event_id,creator,participant,match,chat_id,chat_block\n" + event + "," + userB + "," + userA + ",True," + chat + "," + activity + "\n",
			row:    1,
			target: importerrors.ErrInvalidValue,
		},
		{
			name:   "short record",
			table:  entities.TableActivities,
			data:   "activity_name,activity_id\nhiking\n",
			row:    1,
			target: importerrors.ErrMalformedRow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := newTestUseCase()

			_, err := uc.ImportFile(context.Background(), tt.table, strings.NewReader(tt.data))
			var importErr *pkgerrors.ImportError
			require.ErrorAs(t, err, &importErr)
			assert.Equal(t, tt.row, importErr.Row)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestImportFile_HeaderMismatch(t *testing.T) {
	uc, _ := newTestUseCase()

	for _, data := range []string{
		"",
		"activity_name\nhiking\n",
		"activity_name,activity_id,extra\nhiking," + activity + ",x\n",
		"activity_name,activity_name\nhiking,hiking\n",
	} {
		_, err := uc.ImportFile(context.Background(), entities.TableActivities, strings.NewReader(data))
		var importErr *pkgerrors.ImportError
		require.ErrorAs(t, err, &importErr, data)
		assert.Zero(t, importErr.Row)
		assert.ErrorIs(t, err, importerrors.ErrHeaderMismatch)
	}
}

func TestImportFile_UnknownTable(t *testing.T) {
	uc, _ := newTestUseCase()

	_, err := uc.ImportFile(context.Background(), entities.Table("sessions"), strings.NewReader("a\n"))
	var validationErr *pkgerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.ErrorIs(t, err, importerrors.ErrUnknownTable)
}

func importBase(t *testing.T, uc *UseCase) {
	t.Helper()

	for _, f := range []struct {
		table entities.Table
		data  string
	}{
		{entities.TableUsers, usersCSV},
		{entities.TableActivities, activitiesCSV},
		{entities.TableEvents, eventsCSV},
	} {
		_, err := uc.ImportFile(context.Background(), f.table, strings.NewReader(f.data))
		require.NoError(t, err, f.table)
	}
}

// TestImportFile_RecordOwnership rejects rows the engine could never have written
func TestImportFile_RecordOwnership(t *testing.T) {
	const (
		matchHeader = "event_id,creator,participant,match,chat_id,chat_block\n"
		chatHeader  = "chat_id,chat_text,datetime,sender,recipient\n"
	)

	tests := []struct {
		name   string
		table  entities.Table
		data   string
		row    int
		target error
	}{
		{
			name:   "creator did not initiate the event",
			table:  entities.TableMatches,
			data:   matchHeader + event + "," + userA + "," + userB + ",False,,\n",
			row:    1,
			target: importerrors.ErrInvalidValue,
		},
		{
			name:   "message on unknown channel",
			table:  entities.TableChats,
			data:   chatHeader + uuid.NewString() + ",hi,2024-06-01 11:00:00," + userA + "," + userB + "\n",
			row:    1,
			target: importerrors.ErrForeignKey,
		},
		{
			name:   "message to self",
			table:  entities.TableChats,
			data:   chatHeader + chat + ",hi,2024-06-01 11:00:00," + userA + "," + userA + "\n",
			row:    1,
			target: importerrors.ErrInvalidValue,
		},
		{
			name:  "message from unknown user",
			table: entities.TableChats,
			data: chatHeader +
				chat + ",hi,2024-06-01 11:00:00," + userA + "," + userB + "\n" +
				chat + ",psst,2024-06-01 11:00:01," + event + "," + userA + "\n",
			row:    2,
			target: importerrors.ErrForeignKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, store := newTestUseCase()
			importBase(t, uc)
			_, err := uc.ImportFile(context.Background(), entities.TableMatches, strings.NewReader(matchesCSV))
			require.NoError(t, err)

			_, err = uc.ImportFile(context.Background(), tt.table, strings.NewReader(tt.data))
			var importErr *pkgerrors.ImportError
			require.ErrorAs(t, err, &importErr)
			assert.Equal(t, tt.row, importErr.Row)
			assert.ErrorIs(t, err, tt.target)

			msgs, err := store.Chats().ListPage(context.Background(), uuid.MustParse(chat), time.Time{}, true, 10)
			require.NoError(t, err)
			assert.Empty(t, msgs)
		})
	}
}

func TestImportFile_BlockedByParty(t *testing.T) {
	uc, store := newTestUseCase()
	importBase(t, uc)

	data := "event_id,creator,participant,match,chat_id,chat_block\n" +
		event + "," + userB + "," + userA + ",True," + chat + "," + strings.ToUpper(userA) + "\n"
	_, err := uc.ImportFile(context.Background(), entities.TableMatches, strings.NewReader(data))
	require.NoError(t, err)

	m, err := store.Matches().GetByKey(context.Background(), matchent.Key{
		EventID:     uuid.MustParse(event),
		Creator:     uuid.MustParse(userB),
		Participant: uuid.MustParse(userA),
	})
	require.NoError(t, err)
	assert.Equal(t, matchent.StateBlocked, m.State())
	require.NotNil(t, m.ChatBlock)
	assert.Equal(t, userA, *m.ChatBlock)
}
