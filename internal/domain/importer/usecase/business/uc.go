package business

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	catent "github.com/radu-bors/Clique-backend/internal/domain/catalog/entities"
	chatent "github.com/radu-bors/Clique-backend/internal/domain/chat/entities"
	dirent "github.com/radu-bors/Clique-backend/internal/domain/directory/entities"
	evtent "github.com/radu-bors/Clique-backend/internal/domain/event/entities"
	"github.com/radu-bors/Clique-backend/internal/domain/importer/deps"
	"github.com/radu-bors/Clique-backend/internal/domain/importer/entities"
	importerrors "github.com/radu-bors/Clique-backend/internal/domain/importer/errors"
	matchent "github.com/radu-bors/Clique-backend/internal/domain/matching/entities"
	"github.com/radu-bors/Clique-backend/internal/infrastructure/metrics"
	pkgerrors "github.com/radu-bors/Clique-backend/pkg/errors"
	"github.com/radu-bors/Clique-backend/pkg/point"
	"github.com/rs/zerolog"
)

var (
	dateLayouts      = []string{"2006-01-02", "02-01-2006"}
	timestampLayouts = []string{"2006-01-02 15:04:05", time.RFC3339Nano}
)

// headerAliases maps column names found in legacy exports to schema columns.
var headerAliases = map[string]string{
	"text": "chat_text",
}

type UseCase struct {
	loader  deps.Loader
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewUseCase(loader deps.Loader, logger zerolog.Logger) *UseCase {
	return &UseCase{
		loader:  loader,
		metrics: metrics.DefaultMetrics,
		logger:  logger.With().Str("component", "importer").Logger(),
	}
}

// ImportFile parses a whole file and loads it in one transaction. Nothing is
// written unless every row parses and satisfies the table's constraints.
func (u *UseCase) ImportFile(ctx context.Context, table entities.Table, r io.Reader) (*entities.Result, error) {
	if table.Columns() == nil {
		return nil, pkgerrors.NewFieldError("table", "%w: %q", importerrors.ErrUnknownTable, table)
	}

	rows, err := u.parse(table, r)
	if err != nil {
		u.fail(table, err)
		return nil, err
	}

	if err := u.loader.Load(ctx, table, rows); err != nil {
		var rowErr *importerrors.RowError
		if errors.As(err, &rowErr) {
			err = pkgerrors.NewImportError(string(table), rowErr.Index+1, rowErr.Err)
		} else {
			err = pkgerrors.NewImportError(string(table), 0, err)
		}
		u.fail(table, err)
		return nil, err
	}

	u.metrics.RecordImport(string(table), len(rows))
	u.logger.Info().
		Str("table", string(table)).
		Int("rows", len(rows)).
		Msg("table imported")

	return &entities.Result{Table: table, Rows: len(rows)}, nil
}

func (u *UseCase) fail(table entities.Table, err error) {
	u.metrics.RecordImportFailure(string(table))
	u.logger.Error().Err(err).
		Str("table", string(table)).
		Msg("import rolled back")
}

func (u *UseCase) parse(table entities.Table, r io.Reader) ([]any, error) {
	reader := csv.NewReader(r)
	reader.Comma = entities.Delimiter
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, pkgerrors.NewImportError(string(table), 0, fmt.Errorf("%w: empty file", importerrors.ErrHeaderMismatch))
		}
		return nil, pkgerrors.NewImportError(string(table), 0, fmt.Errorf("%w: %v", importerrors.ErrMalformedRow, err))
	}

	index, err := mapHeader(table, header)
	if err != nil {
		return nil, pkgerrors.NewImportError(string(table), 0, err)
	}
	reader.FieldsPerRecord = len(header)

	parseRow := parsers[table]
	var rows []any
	for n := 1; ; n++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, pkgerrors.NewImportError(string(table), n, fmt.Errorf("%w: %v", importerrors.ErrMalformedRow, err))
		}

		row, err := parseRow(fields{record: record, index: index})
		if err != nil {
			return nil, pkgerrors.NewImportError(string(table), n, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// mapHeader returns the record position of every column of table. The header
// must name each column exactly once, in any order and case.
func mapHeader(table entities.Table, header []string) (map[string]int, error) {
	want := make(map[string]struct{})
	for _, c := range table.Columns() {
		want[c] = struct{}{}
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if alias, ok := headerAliases[name]; ok {
			name = alias
		}
		if _, ok := want[name]; !ok {
			return nil, fmt.Errorf("%w: unexpected column %q", importerrors.ErrHeaderMismatch, name)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("%w: column %q repeated", importerrors.ErrHeaderMismatch, name)
		}
		index[name] = i
	}

	for _, c := range table.Columns() {
		if _, ok := index[c]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", importerrors.ErrHeaderMismatch, c)
		}
	}
	return index, nil
}

// fields gives named access to one record.
type fields struct {
	record []string
	index  map[string]int
}

// text returns the raw value; ok is false for the NULL token.
func (f fields) text(col string) (string, bool) {
	v := f.record[f.index[col]]
	if strings.TrimSpace(v) == entities.NullToken {
		return "", false
	}
	return v, true
}

// value returns the trimmed value; ok is false for NULL or an empty field.
func (f fields) value(col string) (string, bool) {
	v, ok := f.text(col)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (f fields) required(col string) (string, error) {
	v, ok := f.value(col)
	if !ok {
		return "", fmt.Errorf("%s: %w", col, importerrors.ErrMissingValue)
	}
	return v, nil
}

func (f fields) id(col string) (uuid.UUID, error) {
	v, err := f.required(col)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, invalid(col, v)
	}
	return id, nil
}

func (f fields) optionalID(col string) (*uuid.UUID, error) {
	v, ok := f.value(col)
	if !ok {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, invalid(col, v)
	}
	return &id, nil
}

func (f fields) integer(col string) (int, error) {
	v, err := f.required(col)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, invalid(col, v)
	}
	return n, nil
}

func (f fields) boolean(col string) (bool, error) {
	v, err := f.required(col)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, invalid(col, v)
	}
	return b, nil
}

func (f fields) point(col string) (point.Point, error) {
	v, err := f.required(col)
	if err != nil {
		return point.Point{}, err
	}
	p, err := point.Parse(v)
	if err != nil {
		return point.Point{}, invalid(col, v)
	}
	return p, nil
}

func (f fields) date(col string) (time.Time, error) {
	v, err := f.required(col)
	if err != nil {
		return time.Time{}, err
	}
	return parseTime(col, v, dateLayouts)
}

func (f fields) timestamp(col string) (time.Time, error) {
	v, err := f.required(col)
	if err != nil {
		return time.Time{}, err
	}
	return parseTime(col, v, timestampLayouts)
}

func (f fields) optionalTimestamp(col string) (*time.Time, error) {
	v, ok := f.value(col)
	if !ok {
		return nil, nil
	}
	t, err := parseTime(col, v, timestampLayouts)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseTime(col, v string, layouts []string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, invalid(col, v)
}

func invalid(col, v string) error {
	return fmt.Errorf("%s: %w %q", col, importerrors.ErrInvalidValue, v)
}

var parsers = map[entities.Table]func(fields) (any, error){
	entities.TableUsers:      parseUser,
	entities.TableActivities: parseActivity,
	entities.TableEvents:     parseEvent,
	entities.TableMatches:    parseMatch,
	entities.TableChats:      parseMessage,
}

func parseUser(f fields) (any, error) {
	var (
		u   dirent.User
		err error
	)
	if u.UID, err = f.id("uid"); err != nil {
		return nil, err
	}
	if u.Name, err = f.required("name"); err != nil {
		return nil, err
	}
	if u.Birthdate, err = f.date("birthdate"); err != nil {
		return nil, err
	}
	raw, err := f.required("gender")
	if err != nil {
		return nil, err
	}
	var ok bool
	if u.Gender, ok = dirent.ParseGender(raw); !ok {
		return nil, invalid("gender", raw)
	}
	if u.Location, err = f.point("location"); err != nil {
		return nil, err
	}
	if u.LastOnline, err = f.optionalTimestamp("last_online"); err != nil {
		return nil, err
	}
	return &u, nil
}

func parseActivity(f fields) (any, error) {
	var (
		a   catent.Activity
		err error
	)
	if a.ActivityID, err = f.id("activity_id"); err != nil {
		return nil, err
	}
	if a.ActivityName, err = f.required("activity_name"); err != nil {
		return nil, err
	}
	return &a, nil
}

func parseEvent(f fields) (any, error) {
	var (
		e   evtent.Event
		err error
	)
	if e.EventID, err = f.id("event_id"); err != nil {
		return nil, err
	}
	if e.ActivityID, err = f.id("activity_id"); err != nil {
		return nil, err
	}
	if e.InitiatedBy, err = f.id("initiated_by"); err != nil {
		return nil, err
	}
	if e.Location, err = f.point("location"); err != nil {
		return nil, err
	}
	if e.MinAge, err = f.integer("min_age"); err != nil {
		return nil, err
	}
	if e.MaxAge, err = f.integer("max_age"); err != nil {
		return nil, err
	}
	if e.MinAge < 0 || e.MinAge > e.MaxAge {
		return nil, fmt.Errorf("min_age: %w: %d..%d", importerrors.ErrInvalidValue, e.MinAge, e.MaxAge)
	}
	raw, err := f.required("pref_genders")
	if err != nil {
		return nil, err
	}
	if e.PrefGenders, err = evtent.ParseGenderSet(raw); err != nil || len(e.PrefGenders) == 0 {
		return nil, invalid("pref_genders", raw)
	}
	e.Description, _ = f.text("description")
	if e.IsOpen, err = f.boolean("is_open"); err != nil {
		return nil, err
	}
	if e.InitiatedOn, err = f.timestamp("initiated_on"); err != nil {
		return nil, err
	}
	return &e, nil
}

// parseMatch accepts an empty chat_block as unblocked; otherwise it must name the
// blocking party. A chat_id is only accepted on a mutual record, and a mutual
// record must carry one.
func parseMatch(f fields) (any, error) {
	var (
		m   matchent.Match
		err error
	)
	if m.EventID, err = f.id("event_id"); err != nil {
		return nil, err
	}
	if m.Creator, err = f.id("creator"); err != nil {
		return nil, err
	}
	if m.Participant, err = f.id("participant"); err != nil {
		return nil, err
	}
	if m.Creator == m.Participant {
		return nil, fmt.Errorf("participant: %w: same as creator", importerrors.ErrInvalidValue)
	}
	if m.Mutual, err = f.boolean("match"); err != nil {
		return nil, err
	}
	if m.ChatID, err = f.optionalID("chat_id"); err != nil {
		return nil, err
	}
	if m.Mutual != (m.ChatID != nil) {
		return nil, fmt.Errorf("chat_id: %w: must be set exactly when match is true", importerrors.ErrInvalidValue)
	}
	if raw, ok := f.value("chat_block"); ok {
		blocker, err := uuid.Parse(raw)
		if err != nil || !m.HasParty(blocker) {
			return nil, fmt.Errorf("chat_block: %w: %q is not the id of either party", importerrors.ErrInvalidValue, raw)
		}
		block := blocker.String()
		m.ChatBlock = &block
	}
	return &m, nil
}

func parseMessage(f fields) (any, error) {
	var (
		msg chatent.Message
		err error
	)
	if msg.ChatID, err = f.id("chat_id"); err != nil {
		return nil, err
	}
	text, ok := f.text("chat_text")
	if !ok {
		return nil, fmt.Errorf("chat_text: %w", importerrors.ErrMissingValue)
	}
	msg.ChatText = text
	if msg.Datetime, err = f.timestamp("datetime"); err != nil {
		return nil, err
	}
	msg.Datetime = msg.Datetime.Truncate(time.Microsecond)
	if msg.Sender, err = f.id("sender"); err != nil {
		return nil, err
	}
	if msg.Recipient, err = f.id("recipient"); err != nil {
		return nil, err
	}
	return &msg, nil
}
