package checklist

import (
	"context"

	"github.com/ehr/safesurgery/internal/platform/tablestore"
)

type entryRepoCSV struct {
	ds *tablestore.Dataset
}

// NewEntryRepoCSV returns a repository over the checklist CSV file.
func NewEntryRepoCSV(store *tablestore.Store) EntryRepository {
	return &entryRepoCSV{ds: store.Dataset(Dataset, Columns...)}
}

// AppendAll adds every entry in a single rewrite of the file.
func (r *entryRepoCSV) AppendAll(_ context.Context, entries []*Entry) error {
	return r.ds.Update(func(t *tablestore.Table) error {
		for _, e := range entries {
			if err := t.Append(e.PatientName, e.Date, e.Phase, e.Item, tablestore.FormatBool(e.Passed)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *entryRepoCSV) List(_ context.Context) ([]*Entry, error) {
	t := r.ds.Load()
	out := make([]*Entry, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		out = append(out, &Entry{
			PatientName: t.Field(i, "patient_name"),
			Date:        tablestore.FormatDate(tablestore.ParseDate(t.Field(i, "date"))),
			Phase:       t.Field(i, "phase"),
			Item:        t.Field(i, "item"),
			Passed:      tablestore.ParseBool(t.Field(i, "passed")),
		})
	}
	return out, nil
}
