package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/maktab-app/maktab/apps/api/echo/helpers"
	tajweedsvc "github.com/maktab-app/maktab/services/tajweed"
)

type tajweedApi struct {
	scorer   *tajweedsvc.Scorer
	validate *validator.Validate
}

func RegisterTajweedAPI(g *echo.Group, jwt echo.MiddlewareFunc, scorer *tajweedsvc.Scorer, validate *validator.Validate) {
	api := tajweedApi{scorer: scorer, validate: validate}

	tg := g.Group("/tajweed", jwt)
	tg.POST("/score", api.score, helpers.RoleMiddleware())
}

func (api *tajweedApi) score(ctx echo.Context) error {
	data := new(tajweedsvc.Submission)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, api.scorer.Score(*data))
}
