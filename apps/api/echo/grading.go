package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/assignment"
	"github.com/trezcool/kazi/core/grading"
	"github.com/trezcool/kazi/core/roster"
)

type gradingApi struct {
	svc       *grading.Service
	rosterSvc *roster.Service
	validate  *validator.Validate
}

func registerGradingAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := gradingApi{
		svc:       opts.GradingSvc,
		rosterSvc: opts.RosterSvc,
		validate:  opts.Validate,
	}

	gg := g.Group("/grading", jwt, lecturerMiddleware())
	gg.GET("/students", api.queryStudents)
	gg.POST("/grade", api.grade)
}

// Handlers

// queryStudents serves the grading dashboard roster: paginated by default,
// unpaginated free-text search when `search` is given.
func (api *gradingApi) queryStudents(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	if query := core.CleanString(ctx.QueryParam("search")); query != "" {
		rows, err := api.rosterSvc.Search(reqCtx, query)
		if err != nil {
			return errors.Wrap(err, "searching roster")
		}
		return ctx.JSON(http.StatusOK, roster.Page{Rows: rows, Total: len(rows)})
	}

	page, err := intParam(ctx, "page", 1)
	if err != nil {
		return err
	}
	pageSize, err := intParam(ctx, "page_size", roster.PageSizes[0])
	if err != nil {
		return err
	}

	pg, err := api.rosterSvc.ListPage(reqCtx, page, pageSize)
	if err != nil {
		return errors.Wrap(err, "querying roster page")
	}
	return ctx.JSON(http.StatusOK, pg)
}

func (api *gradingApi) grade(ctx echo.Context) error {
	var data GradeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	id, err := uuid.Parse(data.AssignmentID)
	if err != nil {
		return assignment.ErrNotFound
	}

	g, err := api.svc.SubmitGrade(ctx.Request().Context(), id, *data.Score, data.Feedback)
	if err != nil {
		return errors.Wrap(err, "submitting grade")
	}
	return ctx.JSON(http.StatusCreated, g)
}

func intParam(ctx echo.Context, name string, dflt int) (int, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return dflt, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, core.NewValidationError(nil, core.FieldError{Field: name, Error: "must be an integer"})
	}
	return val, nil
}

type GradeRequest struct {
	AssignmentID string `json:"assignment_id" validate:"required"`
	Score        *int   `json:"score" validate:"required"`
	Feedback     string `json:"feedback"`
}

func (gr *GradeRequest) Validate(validate *validator.Validate) error {
	gr.AssignmentID = core.CleanString(gr.AssignmentID)
	gr.Feedback = core.CleanString(gr.Feedback)
	return validate.Struct(gr)
}
