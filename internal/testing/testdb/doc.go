// Package testdb provides SurrealDB test databases for integration tests.
//
// Tests run real queries against a real SurrealDB. When TEST_DB_HOST is set
// the package connects there; otherwise it starts one in-memory SurrealDB
// container per test binary with testcontainers. Integration tests are
// skipped under -short and when no Docker daemon is reachable.
//
// Usage:
//
//	func TestMain(m *testing.M) { os.Exit(testdb.Main(m)) }
//
//	func TestSomething(t *testing.T) {
//	    tdb := testdb.New(t)
//	    result, err := tdb.DB.Query(tdb.Ctx(t), "SELECT * FROM user", nil)
//	}
package testdb
