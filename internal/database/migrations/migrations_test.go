package migrations

import (
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"wcdb-go/internal/wc"
)

func newRawDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUpgradeFreshDatabase(t *testing.T) {
	db := newRawDB(t)

	if err := Upgrade(db); err != nil {
		t.Fatalf("Upgrade() error = %v", err)
	}
	if err := CheckStatus(db); err != nil {
		t.Fatalf("CheckStatus() after upgrade = %v", err)
	}

	// The typed conflict table from the second step must exist.
	if _, err := db.Exec(
		`INSERT INTO conflict_victim (wc_id, local_relpath, operation)
		 VALUES (1, 'a', 'update')`); err != nil {
		t.Errorf("conflict_victim missing after upgrade: %v", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("reading user_version: %v", err)
	}
	if version != 2 {
		t.Errorf("user_version = %d, want 2", version)
	}
}

func TestUpgradeIsIdempotent(t *testing.T) {
	db := newRawDB(t)

	if err := Upgrade(db); err != nil {
		t.Fatalf("first Upgrade() error = %v", err)
	}
	if err := Upgrade(db); err != nil {
		t.Fatalf("second Upgrade() error = %v", err)
	}
}

func TestCheckStatusUnversioned(t *testing.T) {
	db := newRawDB(t)

	if err := CheckStatus(db); err == nil {
		t.Error("CheckStatus() on empty database = nil, want error")
	}
}

func TestCheckStatusSchemaTooNew(t *testing.T) {
	db := newRawDB(t)

	if err := Upgrade(db); err != nil {
		t.Fatalf("Upgrade() error = %v", err)
	}
	// Fake a database written by a newer client.
	if _, err := db.Exec("UPDATE schema_migrations SET version = 99"); err != nil {
		t.Fatalf("bumping version: %v", err)
	}

	err := CheckStatus(db)
	if !errors.Is(err, wc.ErrSchemaTooNew) {
		t.Errorf("CheckStatus() error = %v, want ErrSchemaTooNew", err)
	}
}

func TestMigrateTreeConflicts(t *testing.T) {
	db := newRawDB(t)

	if err := Upgrade(db); err != nil {
		t.Fatalf("Upgrade() error = %v", err)
	}

	// A legacy opaque descriptor left by an old client.
	legacy := "operation: update\n" +
		"action: delete\n" +
		"reason: edited\n" +
		"left_repos_path: trunk/a\n" +
		"left_revision: 4\n" +
		"left_kind: file\n" +
		"right_repos_path: trunk/a\n" +
		"right_revision: 5\n" +
		"right_kind: file\n"
	_, err := db.Exec(
		`INSERT INTO actual_node (wc_id, local_relpath, tree_conflict_data)
		 VALUES (1, 'a', ?)`, legacy)
	if err != nil {
		t.Fatalf("seeding legacy conflict: %v", err)
	}

	if err := migrateTreeConflicts(db); err != nil {
		t.Fatalf("migrateTreeConflicts() error = %v", err)
	}

	var op, action, reason string
	var leftRev, rightRev int64
	err = db.QueryRow(
		`SELECT operation, action, reason, left_revision, right_revision
		 FROM conflict_victim WHERE wc_id = 1 AND local_relpath = 'a'`).
		Scan(&op, &action, &reason, &leftRev, &rightRev)
	if err != nil {
		t.Fatalf("reading typed conflict: %v", err)
	}
	if op != "update" || action != "delete" || reason != "edited" {
		t.Errorf("typed conflict = %s/%s/%s", op, action, reason)
	}
	if leftRev != 4 || rightRev != 5 {
		t.Errorf("revisions = %d/%d", leftRev, rightRev)
	}

	// The legacy column is nulled after migration.
	var legacyLeft sql.NullString
	err = db.QueryRow(
		`SELECT tree_conflict_data FROM actual_node
		 WHERE wc_id = 1 AND local_relpath = 'a'`).Scan(&legacyLeft)
	if err != nil {
		t.Fatalf("reading legacy column: %v", err)
	}
	if legacyLeft.Valid {
		t.Errorf("legacy blob survived migration: %q", legacyLeft.String)
	}
}

func TestParseLegacyConflict(t *testing.T) {
	t.Run("full descriptor", func(t *testing.T) {
		d, err := parseLegacyConflict(
			"operation: merge\naction: add\nreason: obstructed\nleft_revision: 10\n")
		if err != nil {
			t.Fatalf("parseLegacyConflict() error = %v", err)
		}
		if d.operation != "merge" || d.action != "add" || d.leftRevision != 10 {
			t.Errorf("descriptor = %+v", d)
		}
	})

	t.Run("unknown keys are skipped", func(t *testing.T) {
		d, err := parseLegacyConflict("operation: update\nfuture_field: x\n")
		if err != nil {
			t.Fatalf("parseLegacyConflict() error = %v", err)
		}
		if d.operation != "update" {
			t.Errorf("operation = %q", d.operation)
		}
	})

	t.Run("missing operation fails", func(t *testing.T) {
		if _, err := parseLegacyConflict("action: add\n"); err == nil {
			t.Error("parseLegacyConflict() = nil, want error")
		}
	})

	t.Run("malformed line fails", func(t *testing.T) {
		if _, err := parseLegacyConflict("operation update"); err == nil {
			t.Error("parseLegacyConflict() = nil, want error")
		}
	})

	t.Run("bad integer fails", func(t *testing.T) {
		if _, err := parseLegacyConflict("operation: update\nleft_revision: ten\n"); err == nil {
			t.Error("parseLegacyConflict() = nil, want error")
		}
	})
}
