package echoapi

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/student"
)

type (
	StudentLoginRequest struct {
		NIM string `json:"nim" validate:"required"`
	}

	StudentLoginResponse struct {
		Token   string          `json:"token"`
		Student student.Student `json:"student"`
	}

	LecturerLoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func (sr *StudentLoginRequest) Validate(validate *validator.Validate) error {
	sr.NIM = core.CleanString(sr.NIM)
	return validate.Struct(sr)
}

func (lr *LecturerLoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}
