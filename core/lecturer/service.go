package lecturer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core"
)

var (
	ErrNotFound    = core.NewNotFoundError("lecturer not found")
	ErrEmailExists = errors.New("a lecturer with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string) error
		CreateLecturer(ctx context.Context, lect Lecturer) (Lecturer, error)
		GetLecturerByEmail(ctx context.Context, email string) (Lecturer, error)
		UpdateLecturerPassword(ctx context.Context, lect Lecturer) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkEmailUniqueness(email string) error {
	if err := svc.repo.CheckEmailUniqueness(context.Background(), email); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Register(ctx context.Context, nl NewLecturer) (Lecturer, error) {
	lect := Lecturer{
		ID:        uuid.New(),
		Email:     nl.Email,
		CreatedAt: time.Now().UTC(),
	}
	if err := lect.SetPassword(nl.Password); err != nil {
		return Lecturer{}, err
	}
	return svc.repo.CreateLecturer(ctx, lect)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Lecturer, error) {
	return svc.repo.GetLecturerByEmail(ctx, core.CleanString(email, true /* lower */))
}

// Authenticate checks the lecturer's credentials. It returns ErrNotFound
// for both an unknown email and a bad password, so callers cannot probe
// for registered emails.
func (svc *Service) Authenticate(ctx context.Context, email, pwd string) (Lecturer, error) {
	lect, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return Lecturer{}, err
	}
	if err := lect.CheckPassword(pwd); err != nil {
		return Lecturer{}, ErrNotFound
	}
	return lect, nil
}

// SetPassword overwrites the lecturer's password. Used by the admin CLI.
func (svc *Service) SetPassword(ctx context.Context, email, pwd string) error {
	lect, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := lect.SetPassword(pwd); err != nil {
		return err
	}
	return svc.repo.UpdateLecturerPassword(ctx, lect)
}
