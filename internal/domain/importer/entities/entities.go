package entities

import "strings"

// Table names a bulk-loadable table.
type Table string

const (
	TableUsers      Table = "users"
	TableActivities Table = "activities"
	TableEvents     Table = "events"
	TableMatches    Table = "matches"
	TableChats      Table = "chats"
)

// NullToken is the literal marking an absent value.
const NullToken = "NULL"

// Delimiter separates fields in import files.
const Delimiter = ','

// Tables lists loadable tables in dependency order.
var Tables = []Table{TableUsers, TableActivities, TableEvents, TableMatches, TableChats}

// ParseTable matches s case-insensitively against Tables.
func ParseTable(s string) (Table, bool) {
	t := Table(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Tables {
		if t == known {
			return t, true
		}
	}
	return "", false
}

// Columns returns the header each table's file must carry, in schema order.
func (t Table) Columns() []string {
	switch t {
	case TableUsers:
		return []string{"name", "birthdate", "gender", "location", "uid", "last_online"}
	case TableActivities:
		return []string{"activity_name", "activity_id"}
	case TableEvents:
		return []string{"event_id", "activity_id", "initiated_by", "location", "min_age", "max_age",
			"pref_genders", "description", "is_open", "initiated_on"}
	case TableMatches:
		return []string{"event_id", "creator", "participant", "match", "chat_id", "chat_block"}
	case TableChats:
		return []string{"chat_id", "chat_text", "datetime", "sender", "recipient"}
	}
	return nil
}

// Result summarises a committed load.
type Result struct {
	Table Table `json:"table"`
	Rows  int   `json:"rows"`
}
