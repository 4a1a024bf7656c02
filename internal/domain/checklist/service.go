package checklist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ehr/safesurgery/internal/platform/tablestore"
	"github.com/ehr/safesurgery/internal/platform/telemetry"
)

type Service struct {
	entries  EntryRepository
	patients PatientDirectory
	catalog  *Catalog
	exporter *Exporter
	metrics  *telemetry.Provider
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService wires the checklist service. patients may be nil, in which
// case patient names are not checked against the registry.
func NewService(entries EntryRepository, patients PatientDirectory, catalog *Catalog, exporter *Exporter, metrics *telemetry.Provider, logger zerolog.Logger) *Service {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Service{
		entries:  entries,
		patients: patients,
		catalog:  catalog,
		exporter: exporter,
		metrics:  metrics,
		logger:   logger.With().Str("dataset", Dataset).Logger(),
		now:      time.Now,
	}
}

func (s *Service) Catalog() *Catalog { return s.catalog }

// Submit records one full set of entries for the phase, dated today, in
// catalog order. Nothing is written when the phase, an item or the patient
// is rejected.
func (s *Service) Submit(ctx context.Context, sub *Submission) ([]*Entry, error) {
	name := strings.TrimSpace(sub.PatientName)
	if name == "" {
		return nil, fmt.Errorf("%w: patient_name is required", ErrValidation)
	}
	items, ok := s.catalog.Items(sub.Phase)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPhase, sub.Phase)
	}
	for item := range sub.Items {
		if !s.catalog.Contains(sub.Phase, item) {
			return nil, fmt.Errorf("%w: %q in phase %q", ErrUnknownItem, item, sub.Phase)
		}
	}
	if s.patients != nil {
		ok, err := s.patients.PatientExists(ctx, name)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: unknown patient %q", ErrValidation, name)
		}
	}

	date := tablestore.FormatDate(s.now())
	entries := make([]*Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, &Entry{
			PatientName: name,
			Date:        date,
			Phase:       sub.Phase,
			Item:        item,
			Passed:      sub.Items[item],
		})
	}
	if err := s.entries.AppendAll(ctx, entries); err != nil {
		return nil, err
	}

	s.metrics.RecordsWritten(Dataset, len(entries))
	s.logger.Info().
		Str("patient_name", name).
		Str("phase", sub.Phase).
		Int("items", len(entries)).
		Msg("checklist submitted")
	return entries, nil
}

// ListEntries returns stored entries in append order, optionally only those
// of one patient.
func (s *Service) ListEntries(ctx context.Context, patientName string) ([]*Entry, error) {
	all, err := s.entries.List(ctx)
	if err != nil || patientName == "" {
		return all, err
	}
	out := make([]*Entry, 0, len(all))
	for _, e := range all {
		if e.PatientName == patientName {
			out = append(out, e)
		}
	}
	return out, nil
}

// Export writes the patient's checklist document and returns its path.
func (s *Service) Export(ctx context.Context, patientName string) (string, error) {
	patientName = strings.TrimSpace(patientName)
	if patientName == "" {
		return "", fmt.Errorf("%w: patient_name is required", ErrValidation)
	}
	if s.exporter == nil {
		return "", fmt.Errorf("checklist export is not configured")
	}

	all, err := s.entries.List(ctx)
	if err != nil {
		s.metrics.Export(telemetry.ExportError)
		return "", err
	}
	path, err := s.exporter.Export(patientName, all)
	switch {
	case errors.Is(err, ErrNothingToExport):
		s.metrics.Export(telemetry.ExportEmpty)
		s.logger.Warn().Str("patient_name", patientName).Msg("nothing to export")
		return "", err
	case err != nil:
		s.metrics.Export(telemetry.ExportError)
		s.logger.Error().Err(err).Str("patient_name", patientName).Msg("checklist export failed")
		return "", err
	}
	s.metrics.Export(telemetry.ExportOK)
	return path, nil
}
