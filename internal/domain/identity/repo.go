package identity

import "context"

// PatientRepository stores patients. Create assigns the id.
type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	List(ctx context.Context) ([]*Patient, error)
}
