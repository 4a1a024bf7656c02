package surgery

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ehr/safesurgery/internal/platform/tablestore"
	"github.com/ehr/safesurgery/internal/platform/telemetry"
)

type Service struct {
	surgeries SurgeryRepository
	patients  PatientDirectory
	metrics   *telemetry.Provider
	logger    zerolog.Logger
	now       func() time.Time
}

// NewService wires the surgery service. patients may be nil, in which case
// patient names are not checked against the registry.
func NewService(surgeries SurgeryRepository, patients PatientDirectory, metrics *telemetry.Provider, logger zerolog.Logger) *Service {
	return &Service{
		surgeries: surgeries,
		patients:  patients,
		metrics:   metrics,
		logger:    logger.With().Str("dataset", Dataset).Logger(),
		now:       time.Now,
	}
}

// CreateSurgery records a surgery. An empty date means today.
func (s *Service) CreateSurgery(ctx context.Context, sg *Surgery) error {
	sg.Normalize()
	if sg.PatientName == "" {
		return fmt.Errorf("%w: patient_name is required", ErrValidation)
	}

	if sg.Date == "" {
		sg.Date = tablestore.FormatDate(s.now())
	} else {
		d := tablestore.ParseDate(sg.Date)
		if d.IsZero() {
			return fmt.Errorf("%w: date must be YYYY-MM-DD, got %q", ErrValidation, sg.Date)
		}
		sg.Date = tablestore.FormatDate(d)
	}

	if s.patients != nil {
		ok, err := s.patients.PatientExists(ctx, sg.PatientName)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: unknown patient %q", ErrValidation, sg.PatientName)
		}
	}

	if err := s.surgeries.Create(ctx, sg); err != nil {
		return err
	}
	s.metrics.RecordsWritten(Dataset, 1)
	s.logger.Info().Int64("id", sg.ID).Str("patient_name", sg.PatientName).Msg("surgery registered")
	return nil
}

// ListSurgeries returns surgeries in intake order, optionally only those of
// one patient.
func (s *Service) ListSurgeries(ctx context.Context, patientName string) ([]*Surgery, error) {
	all, err := s.surgeries.List(ctx)
	if err != nil || patientName == "" {
		return all, err
	}
	out := make([]*Surgery, 0, len(all))
	for _, sg := range all {
		if sg.PatientName == patientName {
			out = append(out, sg)
		}
	}
	return out, nil
}
