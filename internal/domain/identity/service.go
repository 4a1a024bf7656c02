package identity

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ehr/safesurgery/internal/platform/telemetry"
)

type Service struct {
	patients PatientRepository
	metrics  *telemetry.Provider
	logger   zerolog.Logger
}

func NewService(patients PatientRepository, metrics *telemetry.Provider, logger zerolog.Logger) *Service {
	return &Service{
		patients: patients,
		metrics:  metrics,
		logger:   logger.With().Str("dataset", Dataset).Logger(),
	}
}

// CreatePatient validates the intake form and appends the patient. Names
// and document ids are not required to be unique.
func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return err
	}
	s.metrics.RecordsWritten(Dataset, 1)
	s.logger.Info().Int64("id", p.ID).Str("patient_name", p.Name).Msg("patient registered")
	return nil
}

// ListPatients returns every patient in intake order.
func (s *Service) ListPatients(ctx context.Context) ([]*Patient, error) {
	return s.patients.List(ctx)
}

// PatientExists reports whether a patient with exactly this name is
// registered.
func (s *Service) PatientExists(ctx context.Context, name string) (bool, error) {
	patients, err := s.patients.List(ctx)
	if err != nil {
		return false, err
	}
	for _, p := range patients {
		if p.Name == name {
			return true, nil
		}
	}
	return false, nil
}
