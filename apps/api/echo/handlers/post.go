package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/maktab-app/maktab/apps/api/echo/helpers"
	"github.com/maktab-app/maktab/core"
	"github.com/maktab-app/maktab/core/forum"
)

type postApi struct {
	svc      *forum.Service
	notifier core.Notifier
	validate *validator.Validate
}

func registerPostAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *forum.Service, notifier core.Notifier, validate *validator.Validate) {
	api := postApi{svc: svc, notifier: notifier, validate: validate}

	pg := g.Group("/posts")
	pg.GET("", api.query)
	pg.GET("/:id", api.retrieve)

	ag := pg.Group("", jwt)
	ag.POST("", api.create, helpers.RoleMiddleware())
	ag.PUT("/:id", api.update, helpers.RoleMiddleware())
	ag.DELETE("/:id", api.delete, helpers.RoleMiddleware())
}

func (api *postApi) query(ctx echo.Context) error {
	posts, err := api.svc.QueryPosts(ctx.Request().Context(), ctx.QueryParam("topicId"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, posts)
}

func (api *postApi) retrieve(ctx echo.Context) error {
	post, err := api.svc.GetPostByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, post)
}

func (api *postApi) create(ctx echo.Context) error {
	data := new(forum.NewPost)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	post, err := api.svc.CreatePost(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}

	api.notifier.Broadcast(core.Notification{
		Type: "post.created",
		Link: "/topics/" + post.TopicID + "/posts/" + post.ID,
	}, core.ToRoom("topic:"+post.TopicID))
	return ctx.JSON(http.StatusCreated, post)
}

func (api *postApi) update(ctx echo.Context) error {
	data := new(forum.UpdatePost)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	post, err := api.svc.UpdatePost(ctx.Request().Context(), ctx.Param("id"), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, post)
}

func (api *postApi) delete(ctx echo.Context) error {
	if err := api.svc.DeletePost(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
