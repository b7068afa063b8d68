package services

import (
	"strings"
	"testing"

	"exam-prep-system/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunDB opens a connection-less session that only renders SQL.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "postgres://localhost:5432/dryrun",
	}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open dry-run session: %v", err)
	}
	return db
}

// Deleting an account must issue real DELETEs for the whole cascade.
// A soft delete on the user row keeps the email in the unique index
// and the address can never register again.
func TestPurgeUserDataIssuesHardDeletes(t *testing.T) {
	db := dryRunDB(t)

	var queries []string
	err := db.Callback().Delete().After("gorm:delete").Register("capture_delete_sql", func(d *gorm.DB) {
		queries = append(queries, d.Statement.SQL.String())
	})
	if err != nil {
		t.Fatalf("failed to register callback: %v", err)
	}

	if err := purgeUserData(db, "user-1", "student@example.com"); err != nil {
		t.Fatalf("purge failed: %v", err)
	}

	if len(queries) != 5 {
		t.Fatalf("expected 5 delete statements, got %d: %v", len(queries), queries)
	}
	for _, q := range queries {
		upper := strings.ToUpper(q)
		if !strings.HasPrefix(upper, "DELETE FROM") {
			t.Fatalf("soft delete leaked into account purge: %q", q)
		}
	}

	userDelete := strings.ToUpper(queries[len(queries)-1])
	if !strings.Contains(userDelete, `"USERS"`) {
		t.Fatalf("expected the user row to be deleted last, got %q", queries[len(queries)-1])
	}
}

// The same session without Unscoped renders an UPDATE, which is what
// the callback capture above guards against regressing to.
func TestScopedUserDeleteIsSoft(t *testing.T) {
	db := dryRunDB(t)

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return tx.Delete(&models.User{}, "id = ?", "user-1")
	})
	if !strings.HasPrefix(strings.ToUpper(sql), "UPDATE") {
		t.Fatalf("expected scoped delete to be soft, got %q", sql)
	}
}
