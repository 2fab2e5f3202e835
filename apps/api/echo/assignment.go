package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/assignment"
)

type assignmentApi struct {
	svc      *assignment.Service
	validate *validator.Validate
}

func registerAssignmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := assignmentApi{svc: opts.AssignmentSvc, validate: opts.Validate}

	ag := g.Group("/assignments", jwt)
	ag.GET("/me", api.me, studentMiddleware())
	ag.GET("/me/history", api.history, studentMiddleware())
	ag.POST("/regenerate", api.regenerate, lecturerMiddleware())
}

// Handlers

// me returns the calling student's active assignment, creating one
// just-in-time on first access.
func (api *assignmentApi) me(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	a, err := api.svc.GetOrCreateForStudent(ctx.Request().Context(), claims.NIM)
	if err != nil {
		return errors.Wrap(err, "getting assignment")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *assignmentApi) history(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	ass, err := api.svc.History(ctx.Request().Context(), claims.NIM)
	if err != nil {
		return errors.Wrap(err, "querying assignment history")
	}
	if ass == nil {
		ass = []assignment.Assignment{}
	}
	return ctx.JSON(http.StatusOK, ass)
}

// regenerate retires a student's active assignment and issues a fresh one.
// The retired assignment's chat, submissions and grade stay attached to it.
func (api *assignmentApi) regenerate(ctx echo.Context) error {
	var data RegenerateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RegenerateRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.svc.Regenerate(ctx.Request().Context(), data.NIM)
	if err != nil {
		return errors.Wrap(err, "regenerating assignment")
	}
	return ctx.JSON(http.StatusCreated, a)
}

type RegenerateRequest struct {
	NIM string `json:"nim" validate:"required"`
}

func (rr *RegenerateRequest) Validate(validate *validator.Validate) error {
	rr.NIM = core.CleanString(rr.NIM)
	return validate.Struct(rr)
}
