package visit

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/aklinic/internal/domain/visit"
	"github.com/BruksfildServices01/aklinic/internal/httperr"
	"github.com/BruksfildServices01/aklinic/internal/models"
)

type PatientHistory struct {
	repo domain.Repository
}

func NewPatientHistory(repo domain.Repository) *PatientHistory {
	return &PatientHistory{repo: repo}
}

// Execute returns nil, nil when no patient has that phone.
func (uc *PatientHistory) Execute(
	ctx context.Context,
	phone string,
) (*models.Patient, error) {

	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, httperr.ErrBusiness("phone_required")
	}

	p, err := uc.repo.FindPatientByPhone(ctx, phone)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
