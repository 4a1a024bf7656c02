package clinical

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ehr/safesurgery/internal/platform/tablestore"
	"github.com/ehr/safesurgery/internal/platform/telemetry"
)

type Service struct {
	notes    NoteRepository
	patients PatientDirectory
	metrics  *telemetry.Provider
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(notes NoteRepository, patients PatientDirectory, metrics *telemetry.Provider, logger zerolog.Logger) *Service {
	return &Service{
		notes:    notes,
		patients: patients,
		metrics:  metrics,
		logger:   logger.With().Str("dataset", Dataset).Logger(),
		now:      time.Now,
	}
}

// AddNote appends a clinical evolution for a registered patient, dated
// today regardless of any date supplied.
func (s *Service) AddNote(ctx context.Context, n *Note) error {
	n.Normalize()
	if n.PatientName == "" {
		return fmt.Errorf("%w: patient_name is required", ErrValidation)
	}
	if s.patients != nil {
		ok, err := s.patients.PatientExists(ctx, n.PatientName)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: unknown patient %q", ErrValidation, n.PatientName)
		}
	}

	n.Date = tablestore.FormatDate(s.now())
	if err := s.notes.Append(ctx, n); err != nil {
		return err
	}
	s.metrics.RecordsWritten(Dataset, 1)
	s.logger.Info().Str("patient_name", n.PatientName).Msg("clinical note added")
	return nil
}

// ListNotes returns a patient's notes in the order they were written.
func (s *Service) ListNotes(ctx context.Context, patientName string) ([]*Note, error) {
	return s.notes.ListByPatient(ctx, patientName)
}
