package migrations

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"wcdb-go/internal/database"
)

// migrateTreeConflicts parses every legacy opaque tree_conflict_data blob
// on actual_node into a typed conflict_victim row, then nulls the legacy
// column. The whole pass runs in one transaction; re-running it on an
// already-migrated database selects nothing and is a no-op.
func migrateTreeConflicts(db *sql.DB) error {
	selectText, err := database.Text(database.SelectOldTreeConflict)
	if err != nil {
		return err
	}
	insertText, err := database.Text(database.InsertConflictVictim)
	if err != nil {
		return err
	}
	eraseText, err := database.Text(database.EraseOldConflicts)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning conflict migration: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(selectText)
	if err != nil {
		return fmt.Errorf("selecting legacy conflicts: %w", err)
	}

	type victim struct {
		wcID    int64
		relpath string
		data    string
	}
	var victims []victim
	for rows.Next() {
		var v victim
		if err := rows.Scan(&v.wcID, &v.relpath, &v.data); err != nil {
			rows.Close()
			return fmt.Errorf("scanning legacy conflict: %w", err)
		}
		victims = append(victims, v)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterating legacy conflicts: %w", err)
	}
	rows.Close()

	for _, v := range victims {
		d, err := parseLegacyConflict(v.data)
		if err != nil {
			return fmt.Errorf("parsing conflict at %q: %w", v.relpath, err)
		}
		_, err = tx.Exec(insertText,
			v.wcID, v.relpath, d.operation, d.action, d.reason,
			nullable(d.leftReposID), nullableStr(d.leftPath), nullable(d.leftRevision),
			nullableStr(d.leftKind), nullableStr(d.leftChecksum),
			nullable(d.rightReposID), nullableStr(d.rightPath), nullable(d.rightRevision),
			nullableStr(d.rightKind), nullableStr(d.rightChecksum))
		if err != nil {
			return fmt.Errorf("inserting typed conflict at %q: %w", v.relpath, err)
		}
	}

	if len(victims) > 0 {
		if _, err := tx.Exec(eraseText); err != nil {
			return fmt.Errorf("erasing legacy conflicts: %w", err)
		}
	}

	return tx.Commit()
}

// legacyConflict is the parsed form of the old line-oriented descriptor:
// one "key: value" pair per line.
type legacyConflict struct {
	operation     string
	action        string
	reason        string
	leftReposID   int64
	leftPath      string
	leftRevision  int64
	leftKind      string
	leftChecksum  string
	rightReposID  int64
	rightPath     string
	rightRevision int64
	rightKind     string
	rightChecksum string
}

func parseLegacyConflict(data string) (*legacyConflict, error) {
	d := &legacyConflict{
		leftReposID: -1, leftRevision: -1,
		rightReposID: -1, rightRevision: -1,
	}
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("malformed descriptor line %q", line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		var err error
		switch key {
		case "operation":
			d.operation = value
		case "action":
			d.action = value
		case "reason":
			d.reason = value
		case "left_repos_id":
			d.leftReposID, err = strconv.ParseInt(value, 10, 64)
		case "left_repos_path":
			d.leftPath = value
		case "left_revision":
			d.leftRevision, err = strconv.ParseInt(value, 10, 64)
		case "left_kind":
			d.leftKind = value
		case "left_checksum":
			d.leftChecksum = value
		case "right_repos_id":
			d.rightReposID, err = strconv.ParseInt(value, 10, 64)
		case "right_repos_path":
			d.rightPath = value
		case "right_revision":
			d.rightRevision, err = strconv.ParseInt(value, 10, 64)
		case "right_kind":
			d.rightKind = value
		case "right_checksum":
			d.rightChecksum = value
		default:
			// Unknown keys are preserved nowhere; older clients wrote
			// extension fields this client never interpreted.
		}
		if err != nil {
			return nil, fmt.Errorf("bad value for %s: %q", key, value)
		}
	}
	if d.operation == "" {
		return nil, fmt.Errorf("descriptor has no operation")
	}
	return d, nil
}

func nullable(v int64) any {
	if v < 0 {
		return nil
	}
	return v
}

func nullableStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
