package echoapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core/assignment"
	"github.com/trezcool/kazi/core/submission"
)

type submissionApi struct {
	svc           *submission.Service
	assignmentSvc *assignment.Service
}

func registerSubmissionAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := submissionApi{svc: opts.SubmissionSvc, assignmentSvc: opts.AssignmentSvc}

	sg := g.Group("/submissions", jwt)
	sg.POST("", api.create, studentMiddleware())
	sg.GET("/:assignmentID", api.list)
}

// Handlers

func (api *submissionApi) create(ctx echo.Context) error {
	var data SubmissionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmissionRequest")
	}

	id, err := uuid.Parse(data.AssignmentID)
	if err != nil {
		return assignment.ErrNotFound
	}
	if err = api.checkOwnership(ctx, id); err != nil {
		return err
	}

	sub, err := api.svc.Record(ctx.Request().Context(), id, data.LinkURL, data.SubmissionType)
	if err != nil {
		return errors.Wrap(err, "recording submission")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *submissionApi) list(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("assignmentID"))
	if err != nil {
		return errHttpNotFound
	}
	if err = api.checkOwnership(ctx, id); err != nil {
		return err
	}

	subs, err := api.svc.ListByAssignment(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	if subs == nil {
		subs = []submission.Submission{}
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *submissionApi) checkOwnership(ctx echo.Context, assignmentID uuid.UUID) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	a, err := api.assignmentSvc.GetByID(ctx.Request().Context(), assignmentID)
	if err != nil {
		return errors.Wrap(err, "getting assignment")
	}

	if claims.IsStudent && a.StudentNIM != claims.NIM {
		return errHttpForbidden
	}
	if !claims.IsStudent && !claims.IsLecturer {
		return errHttpForbidden
	}
	return nil
}

type SubmissionRequest struct {
	AssignmentID   string `json:"assignment_id"`
	LinkURL        string `json:"link_url"`
	SubmissionType string `json:"submission_type"`
}
