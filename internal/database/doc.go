// Package database provides the storage client used by the clubhouse API.
//
// The Database interface hides the SurrealDB client so repositories only deal
// with SurrealQL text and bind variables:
//   - Query: every statement result, wrapped as {status, result}
//   - QueryOne: the first record of the first statement
//   - Execute: mutations whose result is not needed
//
// The client is constructed explicitly, connected at startup and closed at
// shutdown. Nothing in this package keeps process-wide state.
//
//	db := database.NewSurrealDB(database.Config{
//	    Host:      "localhost",
//	    Port:      "8000",
//	    User:      "root",
//	    Password:  "root",
//	    Namespace: "clubhouse",
//	    Database:  "main",
//	})
//	if err := db.Connect(ctx); err != nil {
//	    return err
//	}
//	defer db.Close()
//
// Use errors.Is() to check error kinds:
//
//	if errors.Is(err, database.ErrNotFound) {
//	    // Handle missing record
//	}
//
// Statements that must land together go through an AtomicBatch, which sends
// them as one BEGIN/COMMIT request.
package database
