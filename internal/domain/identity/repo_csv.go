package identity

import (
	"context"
	"strconv"

	"github.com/ehr/safesurgery/internal/platform/tablestore"
)

type patientRepoCSV struct {
	ds *tablestore.Dataset
}

// NewPatientRepoCSV returns a repository over the patients CSV file.
func NewPatientRepoCSV(store *tablestore.Store) PatientRepository {
	return &patientRepoCSV{ds: store.Dataset(Dataset, Columns...)}
}

func (r *patientRepoCSV) Create(_ context.Context, p *Patient) error {
	return r.ds.Update(func(t *tablestore.Table) error {
		id, err := r.ds.NextID(t, "id")
		if err != nil {
			return err
		}
		if err := t.Append(
			tablestore.FormatInt(id),
			p.Name,
			p.DocumentID,
			strconv.Itoa(p.Age),
			string(p.Sex),
		); err != nil {
			return err
		}
		p.ID = id
		return nil
	})
}

func (r *patientRepoCSV) List(_ context.Context) ([]*Patient, error) {
	t := r.ds.Load()
	out := make([]*Patient, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		out = append(out, &Patient{
			ID:         tablestore.ParseInt(t.Field(i, "id")),
			Name:       t.Field(i, "name"),
			DocumentID: t.Field(i, "document_id"),
			Age:        int(tablestore.ParseInt(t.Field(i, "age"))),
			Sex:        Sex(t.Field(i, "sex")),
		})
	}
	return out, nil
}
