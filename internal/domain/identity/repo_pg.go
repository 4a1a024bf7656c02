package identity

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ehr/safesurgery/internal/platform/db"
)

type patientRepoPG struct {
	pool *pgxpool.Pool
}

// NewPatientRepoPG returns a repository over the patients table.
func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository {
	return &patientRepoPG{pool: pool}
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO patients (name, document_id, age, sex)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		p.Name, p.DocumentID, p.Age, string(p.Sex),
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

func (r *patientRepoPG) List(ctx context.Context) ([]*Patient, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT id, name, document_id, age, sex
		FROM patients
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	out := make([]*Patient, 0)
	for rows.Next() {
		var p Patient
		var sex string
		if err := rows.Scan(&p.ID, &p.Name, &p.DocumentID, &p.Age, &sex); err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		p.Sex = Sex(sex)
		out = append(out, &p)
	}
	return out, rows.Err()
}
