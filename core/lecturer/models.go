package lecturer

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/kazi/core"
)

// Lecturer is an instructor account, keyed by email. Accounts are created
// by registration and read-only afterwards (password resets aside).
type Lecturer struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}

func (l *Lecturer) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	l.PasswordHash = hash
	return nil
}

func (l *Lecturer) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(l.PasswordHash, []byte(pwd))
}

// NewLecturer contains information needed to register a new Lecturer.
type NewLecturer struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nl *NewLecturer) Validate(validate *validator.Validate, _ ut.Translator, svc *Service) error {
	nl.Email = core.CleanString(nl.Email, true /* lower */)

	if err := validate.Struct(nl); err != nil {
		return err
	}
	return svc.checkEmailUniqueness(nl.Email)
}
