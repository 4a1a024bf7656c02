package surgery

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ehr/safesurgery/internal/platform/db"
	"github.com/ehr/safesurgery/internal/platform/tablestore"
)

type surgeryRepoPG struct {
	pool *pgxpool.Pool
}

// NewSurgeryRepoPG returns a repository over the surgeries table.
func NewSurgeryRepoPG(pool *pgxpool.Pool) SurgeryRepository {
	return &surgeryRepoPG{pool: pool}
}

func (r *surgeryRepoPG) Create(ctx context.Context, s *Surgery) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO surgeries (patient_name, procedure, date, surgeon)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		s.PatientName, s.Procedure, tablestore.ParseDate(s.Date), s.Surgeon,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert surgery: %w", err)
	}
	return nil
}

func (r *surgeryRepoPG) List(ctx context.Context) ([]*Surgery, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT id, patient_name, procedure, date, surgeon
		FROM surgeries
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list surgeries: %w", err)
	}
	defer rows.Close()

	out := make([]*Surgery, 0)
	for rows.Next() {
		var s Surgery
		var date time.Time
		if err := rows.Scan(&s.ID, &s.PatientName, &s.Procedure, &date, &s.Surgeon); err != nil {
			return nil, fmt.Errorf("scan surgery: %w", err)
		}
		s.Date = tablestore.FormatDate(date)
		out = append(out, &s)
	}
	return out, rows.Err()
}
