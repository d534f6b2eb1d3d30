package database

import (
	"context"
	"errors"
	"testing"
)

func TestClassifyQueryError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		msg  string
		want error
	}{
		{"Database index `club_name` already contains 'Chess', with record `club:x`", ErrDuplicate},
		{"There was a problem with a unique index", ErrDuplicate},
		{"Database record `club:x` already exists", ErrDuplicate},
		{"Parse error: unexpected token", ErrQuery},
	}
	for _, tt := range tests {
		err := classifyQueryError(tt.msg)
		if !errors.Is(err, tt.want) {
			t.Errorf("%q: expected %v, got %v", tt.msg, tt.want, err)
		}
	}
}

func TestFirstRecord(t *testing.T) {
	t.Parallel()

	row := map[string]interface{}{"id": "club:a"}
	tests := []struct {
		name    string
		results []interface{}
		want    interface{}
		wantErr error
	}{
		{"no statements", nil, nil, ErrNotFound},
		{"empty rows", []interface{}{map[string]interface{}{"status": "OK", "result": []interface{}{}}}, nil, ErrNotFound},
		{"nil result", []interface{}{map[string]interface{}{"status": "OK", "result": nil}}, nil, ErrNotFound},
		{"first row", []interface{}{map[string]interface{}{"status": "OK", "result": []interface{}{row, "second"}}}, row, nil},
		{"unwrapped", []interface{}{map[string]interface{}{"status": "OK", "result": row}}, row, nil},
	}
	for _, tt := range tests {
		got, err := FirstRecord(tt.results)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: expected error %v, got %v", tt.name, tt.wantErr, err)
			continue
		}
		if tt.want != nil {
			if m, ok := got.(map[string]interface{}); !ok || m["id"] != "club:a" {
				t.Errorf("%s: unexpected record %v", tt.name, got)
			}
		}
	}
}

func TestRows(t *testing.T) {
	t.Parallel()

	results := []interface{}{
		map[string]interface{}{"status": "OK", "result": []interface{}{1, 2}},
		map[string]interface{}{"status": "OK", "result": "scalar"},
	}
	if got := Rows(results, 0); len(got) != 2 {
		t.Errorf("expected 2 rows, got %v", got)
	}
	if got := Rows(results, 1); len(got) != 1 || got[0] != "scalar" {
		t.Errorf("expected scalar wrapped, got %v", got)
	}
	if got := Rows(results, 5); got != nil {
		t.Errorf("expected nil for out of range, got %v", got)
	}
}

func TestSurrealDB_NotConnected(t *testing.T) {
	t.Parallel()

	db := NewSurrealDB(Config{Host: "localhost", Port: "8000"})
	if db.Endpoint() != "ws://localhost:8000" {
		t.Errorf("unexpected endpoint %q", db.Endpoint())
	}
	if err := db.Ping(context.Background()); !errors.Is(err, ErrConnection) {
		t.Errorf("expected ErrConnection, got %v", err)
	}
	if _, err := db.Query(context.Background(), "INFO FOR DB", nil); !errors.Is(err, ErrConnection) {
		t.Errorf("expected ErrConnection, got %v", err)
	}
	if err := db.Close(); err != nil {
		t.Errorf("close without connect should be a no-op, got %v", err)
	}
}
