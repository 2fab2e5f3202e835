package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core/student"
)

type studentApi struct {
	svc *student.Service
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := studentApi{svc: opts.StudentSvc}

	sg := g.Group("/students", jwt, lecturerMiddleware())
	sg.POST("/roster", api.uploadRoster)
	sg.GET("", api.query)
}

// Handlers

// uploadRoster bulk-upserts the class roster. Malformed entries are dropped
// silently; only the accepted count is reported.
func (api *studentApi) uploadRoster(ctx echo.Context) error {
	var data RosterUploadRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RosterUploadRequest")
	}

	accepted, err := api.svc.UploadRoster(ctx.Request().Context(), data.Students)
	if err != nil {
		return errors.Wrap(err, "uploading roster")
	}
	return ctx.JSON(http.StatusOK, RosterUploadResponse{Accepted: accepted})
}

func (api *studentApi) query(ctx echo.Context) error {
	studs, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if studs == nil {
		studs = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, studs)
}

type (
	RosterUploadRequest struct {
		Students []student.RosterEntry `json:"students"`
	}

	RosterUploadResponse struct {
		Accepted int `json:"accepted"`
	}
)
