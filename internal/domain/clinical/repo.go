package clinical

import "context"

// NoteRepository stores clinical notes in append order.
type NoteRepository interface {
	Append(ctx context.Context, n *Note) error
	ListByPatient(ctx context.Context, patientName string) ([]*Note, error)
}

// PatientDirectory answers whether a patient name is registered.
type PatientDirectory interface {
	PatientExists(ctx context.Context, name string) (bool, error)
}
