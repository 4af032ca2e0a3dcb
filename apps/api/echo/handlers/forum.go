package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/maktab-app/maktab/core"
	"github.com/maktab-app/maktab/core/forum"
)

type forumApi struct {
	svc *forum.Service
}

// RegisterForumAPI mounts the forum surface: forum listing plus topic and
// post CRUD.
func RegisterForumAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *forum.Service, notifier core.Notifier, validate *validator.Validate) {
	api := forumApi{svc: svc}
	g.GET("/forums", api.query)

	registerTopicAPI(g, jwt, svc, notifier, validate)
	registerPostAPI(g, jwt, svc, notifier, validate)
}

func (api *forumApi) query(ctx echo.Context) error {
	forums, err := api.svc.QueryForums(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, forums)
}
