package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wcdb-go/internal/wc"
)

// AddPristineRef registers a reference to the pristine blob with the
// given strong checksum, inserting the row with refcount 1 on first
// ingest. Callers write the blob file only after this returns.
func (s *Store) AddPristineRef(ctx context.Context, checksum, md5 string, size int64) error {
	if checksum == "" || md5 == "" {
		return fmt.Errorf("%w: pristine entry needs both checksums", wc.ErrInvalidArgument)
	}
	return s.db.WithTx(ctx, func(t *Txn) error {
		n, err := t.Exec(IncrementPristineRefcount, checksum)
		if err != nil {
			return fmt.Errorf("referencing pristine %s: %w", checksum, err)
		}
		if n > 0 {
			return nil
		}
		if _, err := t.Exec(InsertPristine, checksum, md5, size); err != nil {
			return fmt.Errorf("inserting pristine %s: %w", checksum, err)
		}
		return nil
	})
}

// ReleasePristine decrements the refcount. The row stays, even at zero;
// removal is GC's job.
func (s *Store) ReleasePristine(ctx context.Context, checksum string) error {
	n, err := s.db.Exec(ctx, DecrementPristineRefcount, checksum)
	if err != nil {
		return fmt.Errorf("releasing pristine %s: %w", checksum, err)
	}
	if n == 0 {
		return fmt.Errorf("releasing pristine %s: %w", checksum, wc.ErrNotFound)
	}
	return nil
}

// LookupPristine returns the registry entry for a strong checksum.
func (s *Store) LookupPristine(ctx context.Context, checksum string) (*wc.PristineInfo, error) {
	row, err := s.db.QueryRow(ctx, SelectPristine, checksum)
	if err != nil {
		return nil, err
	}
	p := &wc.PristineInfo{Checksum: checksum}
	if err := row.Scan(&p.MD5Checksum, &p.Size, &p.Refcount); err != nil {
		return nil, fmt.Errorf("looking up pristine %s: %w", checksum, mapError(err))
	}
	return p, nil
}

// LookupPristineByMD5 resolves the MD5 secondary index to the registry
// entry.
func (s *Store) LookupPristineByMD5(ctx context.Context, md5 string) (*wc.PristineInfo, error) {
	row, err := s.db.QueryRow(ctx, SelectPristineByMD5, md5)
	if err != nil {
		return nil, err
	}
	p := &wc.PristineInfo{MD5Checksum: md5}
	if err := row.Scan(&p.Checksum, &p.Size, &p.Refcount); err != nil {
		return nil, fmt.Errorf("looking up pristine by md5 %s: %w", md5, mapError(err))
	}
	return p, nil
}

// HasPristineReference runs the authoritative union query: any live
// reference from nodes, the actual overlay, or typed conflicts.
func (s *Store) HasPristineReference(ctx context.Context, checksum string) (bool, error) {
	row, err := s.db.QueryRow(ctx, SelectAnyPristineReference, checksum)
	if err != nil {
		return false, err
	}
	var one int
	switch err := row.Scan(&one); {
	case err == nil:
		return true, nil
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	default:
		return false, mapError(err)
	}
}

// PristineGC removes every registry row whose refcount has dropped to
// zero and that the union reference query no longer finds. It returns the
// checksums removed; the caller unlinks the underlying blob files after
// the transaction is durable.
func (s *Store) PristineGC(ctx context.Context) ([]string, error) {
	var removed []string
	err := s.db.WithTx(ctx, func(t *Txn) error {
		rows, err := t.Query(SelectPristineZeroRefcount)
		if err != nil {
			return err
		}
		var candidates []string
		for rows.Next() {
			var c string
			if err := rows.Scan(&c); err != nil {
				rows.Close()
				return mapError(err)
			}
			candidates = append(candidates, c)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return mapError(err)
		}
		rows.Close()

		for _, c := range candidates {
			row, err := t.QueryRow(SelectAnyPristineReference, c)
			if err != nil {
				return err
			}
			var one int
			switch err := row.Scan(&one); {
			case err == nil:
				// Refcount zero but still referenced: the counter is
				// optimistic, the union query is authoritative.
				continue
			case errors.Is(err, sql.ErrNoRows):
			default:
				return mapError(err)
			}
			if _, err := t.Exec(DeletePristine, c); err != nil {
				return fmt.Errorf("removing pristine %s: %w", c, err)
			}
			removed = append(removed, c)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pristine gc: %w", err)
	}
	return removed, nil
}
