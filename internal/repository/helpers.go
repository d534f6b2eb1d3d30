package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/forgo/clubhouse/api/internal/database"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// Table names
const (
	tableUser = "user"
	tableClub = "club"
)

// qualifyID turns "abc" into "table:abc" and leaves "table:abc" alone, so
// handlers may pass either the bare key or the full record id.
func qualifyID(table, id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	if strings.HasPrefix(id, table+":") {
		return id
	}
	return table + ":" + id
}

// recordID builds a typed record id for use inside array bind variables,
// where type::record() cannot be applied per element.
func recordID(table, id string) models.RecordID {
	key := strings.TrimPrefix(qualifyID(table, id), table+":")
	key = strings.Trim(key, "⟨⟩`")
	return models.NewRecordID(table, key)
}

// convertSurrealID converts a SurrealDB ID (which may be a complex object) to a string
func convertSurrealID(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case models.RecordID:
		return fmt.Sprintf("%s:%v", v.Table, v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprintf("%s:%v", v.Table, v.ID)
		}
	case map[string]interface{}:
		tb := ""
		for _, k := range []string{"tb", "TB", "Table"} {
			if t, ok := v[k].(string); ok {
				tb = t
				break
			}
		}
		idPart := ""
		for _, k := range []string{"id", "ID"} {
			if val, ok := v[k]; ok {
				idPart = extractIDValue(val)
				break
			}
		}
		if tb != "" && idPart != "" {
			return tb + ":" + idPart
		}
		if idPart != "" {
			return idPart
		}
	}
	return fmt.Sprintf("%v", id)
}

// extractIDValue extracts the ID value which may be nested
func extractIDValue(val interface{}) string {
	if str, ok := val.(string); ok {
		return str
	}
	if m, ok := val.(map[string]interface{}); ok {
		if s, ok := m["String"].(string); ok {
			return s
		}
	}
	return fmt.Sprintf("%v", val)
}

// normalize walks a decoded SurrealDB value and replaces record ids with their
// "table:key" string form and datetimes with time.Time, so the result can be
// round-tripped through encoding/json into model structs.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case models.RecordID, *models.RecordID:
		return convertSurrealID(t)
	case models.CustomDateTime:
		return t.Time
	case *models.CustomDateTime:
		if t == nil {
			return nil
		}
		return t.Time
	case map[string]interface{}:
		if isRecordIDMap(t) {
			return convertSurrealID(t)
		}
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}

func isRecordIDMap(m map[string]interface{}) bool {
	if len(m) != 2 {
		return false
	}
	_, hasTB := m["tb"]
	_, hasID := m["id"]
	return hasTB && hasID
}

// decodeRecord converts a single SurrealDB row into T.
func decodeRecord[T any](row interface{}) (*T, error) {
	if row == nil {
		return nil, database.ErrNotFound
	}
	data, ok := normalize(row).(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var out T
	if err := json.Unmarshal(jsonBytes, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// decodeRows converts every row of the first statement into T.
func decodeRows[T any](results []interface{}) ([]*T, error) {
	rows := database.Rows(results, 0)
	out := make([]*T, 0, len(rows))
	for _, row := range rows {
		item, err := decodeRecord[T](row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// updatedAny reports whether an UPDATE ... RETURN id statement touched a row.
func updatedAny(results []interface{}) bool {
	return len(database.Rows(results, 0)) > 0
}
