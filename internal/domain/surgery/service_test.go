package surgery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type mockSurgeryRepo struct {
	surgeries []*Surgery
}

func (m *mockSurgeryRepo) Create(_ context.Context, s *Surgery) error {
	s.ID = int64(len(m.surgeries) + 1)
	cp := *s
	m.surgeries = append(m.surgeries, &cp)
	return nil
}

func (m *mockSurgeryRepo) List(_ context.Context) ([]*Surgery, error) {
	return m.surgeries, nil
}

type mockDirectory map[string]bool

func (m mockDirectory) PatientExists(_ context.Context, name string) (bool, error) {
	return m[name], nil
}

var fixedNow = time.Date(2025, 3, 9, 10, 30, 0, 0, time.UTC)

func newTestService() (*Service, *mockSurgeryRepo) {
	repo := &mockSurgeryRepo{}
	svc := NewService(repo, mockDirectory{"Ana Pérez": true, "Luis Gómez": true}, nil, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	return svc, repo
}

func TestService_CreateSurgery_DefaultsDateToToday(t *testing.T) {
	svc, _ := newTestService()

	sg := &Surgery{PatientName: "Ana Pérez", Procedure: "Apendicectomía", Surgeon: "Dr. Ruiz"}
	if err := svc.CreateSurgery(context.Background(), sg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sg.Date != "2025-03-09" {
		t.Errorf("expected today's date, got %q", sg.Date)
	}
	if sg.ID != 1 {
		t.Errorf("expected id 1, got %d", sg.ID)
	}
}

func TestService_CreateSurgery_NormalizesDate(t *testing.T) {
	svc, _ := newTestService()

	sg := &Surgery{PatientName: "Ana Pérez", Date: "2025-04-01T08:00:00Z"}
	if err := svc.CreateSurgery(context.Background(), sg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sg.Date != "2025-04-01" {
		t.Errorf("expected normalized date, got %q", sg.Date)
	}
}

func TestService_CreateSurgery_Validation(t *testing.T) {
	tests := []struct {
		name string
		sg   Surgery
	}{
		{"missing patient", Surgery{Procedure: "x"}},
		{"unknown patient", Surgery{PatientName: "Nadie"}},
		{"bad date", Surgery{PatientName: "Ana Pérez", Date: "mañana"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService()
			sg := tt.sg
			if err := svc.CreateSurgery(context.Background(), &sg); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if len(repo.surgeries) != 0 {
				t.Error("expected nothing to be stored")
			}
		})
	}
}

func TestService_CreateSurgery_WithoutDirectory(t *testing.T) {
	svc := NewService(&mockSurgeryRepo{}, nil, nil, zerolog.Nop())
	if err := svc.CreateSurgery(context.Background(), &Surgery{PatientName: "Cualquiera"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestService_ListSurgeries_FiltersByPatient(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	for _, name := range []string{"Ana Pérez", "Luis Gómez", "Ana Pérez"} {
		if err := svc.CreateSurgery(ctx, &Surgery{PatientName: name}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	all, _ := svc.ListSurgeries(ctx, "")
	if len(all) != 3 {
		t.Errorf("expected 3 surgeries, got %d", len(all))
	}
	ana, _ := svc.ListSurgeries(ctx, "Ana Pérez")
	if len(ana) != 2 {
		t.Errorf("expected 2 surgeries for Ana Pérez, got %d", len(ana))
	}
}
