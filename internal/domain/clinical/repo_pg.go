package clinical

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ehr/safesurgery/internal/platform/db"
	"github.com/ehr/safesurgery/internal/platform/tablestore"
)

type noteRepoPG struct {
	pool *pgxpool.Pool
}

// NewNoteRepoPG returns a repository over the clinical_notes table.
func NewNoteRepoPG(pool *pgxpool.Pool) NoteRepository {
	return &noteRepoPG{pool: pool}
}

func (r *noteRepoPG) Append(ctx context.Context, n *Note) error {
	_, err := db.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO clinical_notes (patient_name, date, reason, diagnosis, history, observations)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		n.PatientName, tablestore.ParseDate(n.Date), n.Reason, n.Diagnosis, n.History, n.Observations,
	)
	if err != nil {
		return fmt.Errorf("insert clinical note: %w", err)
	}
	return nil
}

func (r *noteRepoPG) ListByPatient(ctx context.Context, patientName string) ([]*Note, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT patient_name, date, reason, diagnosis, history, observations
		FROM clinical_notes
		WHERE $1 = '' OR patient_name = $1
		ORDER BY seq`, patientName)
	if err != nil {
		return nil, fmt.Errorf("list clinical notes: %w", err)
	}
	defer rows.Close()

	out := make([]*Note, 0)
	for rows.Next() {
		var n Note
		var date time.Time
		if err := rows.Scan(&n.PatientName, &date, &n.Reason, &n.Diagnosis, &n.History, &n.Observations); err != nil {
			return nil, fmt.Errorf("scan clinical note: %w", err)
		}
		n.Date = tablestore.FormatDate(date)
		out = append(out, &n)
	}
	return out, rows.Err()
}
