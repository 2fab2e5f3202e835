package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core/dataset"
)

type datasetApi struct {
	svc        *dataset.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerDatasetAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := datasetApi{
		svc:        opts.DatasetSvc,
		validate:   opts.Validate,
		translator: opts.Translator,
	}

	dg := g.Group("/datasets", jwt, lecturerMiddleware())
	dg.GET("", api.query)
	dg.POST("", api.create)
	dg.GET("/:id", api.retrieve)
	dg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *datasetApi) create(ctx echo.Context) error {
	var data dataset.NewDataset
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDataset")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	ds, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating dataset")
	}
	return ctx.JSON(http.StatusCreated, ds)
}

func (api *datasetApi) query(ctx echo.Context) error {
	dss, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying datasets")
	}
	if dss == nil {
		dss = []dataset.Dataset{}
	}
	return ctx.JSON(http.StatusOK, dss)
}

func (api *datasetApi) retrieve(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	ds, err := api.svc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting dataset")
	}
	return ctx.JSON(http.StatusOK, ds)
}

func (api *datasetApi) destroy(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	if err := api.svc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting dataset")
	}
	return ctx.NoContent(http.StatusNoContent)
}
