package checklist

import "context"

// EntryRepository stores checklist entries in append order.
type EntryRepository interface {
	AppendAll(ctx context.Context, entries []*Entry) error
	List(ctx context.Context) ([]*Entry, error)
}

// PatientDirectory answers whether a patient name is registered.
type PatientDirectory interface {
	PatientExists(ctx context.Context, name string) (bool, error)
}
