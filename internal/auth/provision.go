package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/metapharm/metapharm-backend/internal/profiles"
	"github.com/metapharm/metapharm-backend/internal/users"
	"github.com/metapharm/metapharm-backend/pkg/config"
	"github.com/metapharm/metapharm-backend/pkg/db/models"
	"github.com/metapharm/metapharm-backend/pkg/enums"
	pkgerrors "github.com/metapharm/metapharm-backend/pkg/errors"
	"github.com/metapharm/metapharm-backend/pkg/logger"
	"github.com/metapharm/metapharm-backend/pkg/security"
)

const tempPasswordLength = 16

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ProvisionService creates a pharmacy tenant together with its first
// pharmacist account in a single transaction.
type ProvisionService interface {
	Provision(ctx context.Context, req ProvisionRequest) (*ProvisionResponse, error)
}

// ProvisionServiceParams names the dependencies for the provisioning flow.
type ProvisionServiceParams struct {
	TxRunner       txRunner
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
}

type provisionService struct {
	tx          txRunner
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// NewProvisionService builds the admin provisioning service.
func NewProvisionService(params ProvisionServiceParams) (ProvisionService, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &provisionService{
		tx:          params.TxRunner,
		passwordCfg: params.PasswordConfig,
		logg:        params.Logger,
	}, nil
}

func (s *provisionService) Provision(ctx context.Context, req ProvisionRequest) (*ProvisionResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.PharmacistEmail))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacist_email is required")
	}
	pharmacyName := strings.TrimSpace(req.PharmacyName)
	if pharmacyName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacy_name is required")
	}
	pharmacistName := strings.TrimSpace(req.PharmacistName)
	if pharmacistName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pharmacist_name is required")
	}

	password := req.InitialPassword
	tempPassword := ""
	if password == "" {
		generated, err := security.GenerateTempPassword(tempPasswordLength)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate password")
		}
		password = generated
		tempPassword = generated
	}

	passwordHash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var response *ProvisionResponse
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		profileRepo := profiles.NewRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		pharmacy := &models.Pharmacy{
			ID:       uuid.New(),
			Name:     pharmacyName,
			Quartier: strings.TrimSpace(req.Quartier),
			Lat:      req.Lat,
			Lng:      req.Lng,
			Phone:    req.Phone,
		}
		if err := tx.WithContext(ctx).Create(pharmacy).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create pharmacy")
		}

		user := &models.User{
			ID:           uuid.New(),
			Email:        email,
			PasswordHash: passwordHash,
			IsActive:     true,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		pharmacyID := pharmacy.ID
		profile := &models.Profile{
			ID:         user.ID,
			PharmacyID: &pharmacyID,
			Role:       enums.ProfileRolePharmacist,
			FullName:   pharmacistName,
		}
		if err := profileRepo.Create(ctx, profile); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create profile")
		}

		response = &ProvisionResponse{
			PharmacyID:   pharmacy.ID,
			UserID:       user.ID,
			Email:        email,
			TempPassword: tempPassword,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"pharmacy_id": response.PharmacyID.String(),
		"user_id":     response.UserID.String(),
	}), "pharmacy provisioned")
	return response, nil
}
