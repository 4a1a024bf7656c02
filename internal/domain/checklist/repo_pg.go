package checklist

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ehr/safesurgery/internal/platform/db"
	"github.com/ehr/safesurgery/internal/platform/tablestore"
)

type entryRepoPG struct {
	pool *pgxpool.Pool
}

// NewEntryRepoPG returns a repository over the checklist_entries table.
func NewEntryRepoPG(pool *pgxpool.Pool) EntryRepository {
	return &entryRepoPG{pool: pool}
}

// AppendAll inserts every entry in one transaction.
func (r *entryRepoPG) AppendAll(ctx context.Context, entries []*Entry) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		conn := db.Conn(ctx, r.pool)
		for _, e := range entries {
			_, err := conn.Exec(ctx, `
				INSERT INTO checklist_entries (patient_name, date, phase, item, passed)
				VALUES ($1, $2, $3, $4, $5)`,
				e.PatientName, tablestore.ParseDate(e.Date), e.Phase, e.Item, e.Passed,
			)
			if err != nil {
				return fmt.Errorf("insert checklist entry: %w", err)
			}
		}
		return nil
	})
}

func (r *entryRepoPG) List(ctx context.Context) ([]*Entry, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT patient_name, date, phase, item, passed
		FROM checklist_entries
		ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list checklist entries: %w", err)
	}
	defer rows.Close()

	out := make([]*Entry, 0)
	for rows.Next() {
		var e Entry
		var date time.Time
		if err := rows.Scan(&e.PatientName, &date, &e.Phase, &e.Item, &e.Passed); err != nil {
			return nil, fmt.Errorf("scan checklist entry: %w", err)
		}
		e.Date = tablestore.FormatDate(date)
		out = append(out, &e)
	}
	return out, rows.Err()
}
