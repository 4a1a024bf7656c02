package surgery

import "context"

// SurgeryRepository stores surgeries. Create assigns the id.
type SurgeryRepository interface {
	Create(ctx context.Context, s *Surgery) error
	List(ctx context.Context) ([]*Surgery, error)
}

// PatientDirectory answers whether a patient name is registered.
type PatientDirectory interface {
	PatientExists(ctx context.Context, name string) (bool, error)
}
