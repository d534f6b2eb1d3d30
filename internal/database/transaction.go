package database

// Atomic batches for SurrealDB.
//
// Statements accumulate in memory and are sent as one request wrapped in
// BEGIN TRANSACTION / COMMIT TRANSACTION, so they succeed or fail together:
//
//	batch := NewAtomicBatch()
//	batch.Add(query1, vars1)
//	batch.Add(query2, vars2)
//	batch.Execute(ctx, db)
//
// There is no isolation between Add() calls; nothing reaches the server
// before Execute.

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// TxBuilder builds a transaction query, namespacing each statement's
// variables so two statements may both bind $club_id.
type TxBuilder struct {
	statements []string
	vars       map[string]interface{}
	varCounter int
}

// NewTxBuilder creates a new transaction builder
func NewTxBuilder() *TxBuilder {
	return &TxBuilder{
		statements: make([]string, 0),
		vars:       make(map[string]interface{}),
	}
}

// Add appends a statement. Returns the original -> namespaced variable names.
func (tb *TxBuilder) Add(query string, vars map[string]interface{}) map[string]string {
	// Longest names first so $club_id is rewritten before $club.
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	tb.varCounter++
	mapping := make(map[string]string, len(names))
	newQuery := query
	for _, name := range names {
		newName := fmt.Sprintf("s%d_%s", tb.varCounter, name)
		newQuery = strings.ReplaceAll(newQuery, "$"+name, "$"+newName)
		tb.vars[newName] = vars[name]
		mapping[name] = newName
	}

	tb.statements = append(tb.statements, newQuery)
	return mapping
}

// Len returns the number of statements added so far.
func (tb *TxBuilder) Len() int {
	return len(tb.statements)
}

// Build returns the complete transaction query and merged variables
func (tb *TxBuilder) Build() (string, map[string]interface{}) {
	if len(tb.statements) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("BEGIN TRANSACTION;\n")
	for _, stmt := range tb.statements {
		sb.WriteString(strings.TrimSpace(stmt))
		if !strings.HasSuffix(strings.TrimSpace(stmt), ";") {
			sb.WriteString(";")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("COMMIT TRANSACTION;")

	return sb.String(), tb.vars
}

// AtomicBatch is the fluent wrapper over TxBuilder used by repositories.
type AtomicBatch struct {
	builder *TxBuilder
}

// NewAtomicBatch creates a new atomic batch
func NewAtomicBatch() *AtomicBatch {
	return &AtomicBatch{builder: NewTxBuilder()}
}

// Add adds a query to the batch
func (ab *AtomicBatch) Add(query string, vars map[string]interface{}) *AtomicBatch {
	ab.builder.Add(query, vars)
	return ab
}

// Len returns the number of queries in the batch
func (ab *AtomicBatch) Len() int {
	return ab.builder.Len()
}

// Execute runs all queries as a single transaction
func (ab *AtomicBatch) Execute(ctx context.Context, db Database) ([]interface{}, error) {
	query, vars := ab.builder.Build()
	if query == "" {
		return nil, nil
	}
	return db.Query(ctx, query, vars)
}
