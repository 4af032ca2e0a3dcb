package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/maktab-app/maktab/apps/api/echo/helpers"
	"github.com/maktab-app/maktab/core"
	"github.com/maktab-app/maktab/core/author"
	"github.com/maktab-app/maktab/core/forum"
)

type topicApi struct {
	svc      *forum.Service
	notifier core.Notifier
	validate *validator.Validate
}

func registerTopicAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *forum.Service, notifier core.Notifier, validate *validator.Validate) {
	api := topicApi{svc: svc, notifier: notifier, validate: validate}

	tg := g.Group("/topics")
	tg.GET("", api.query)
	tg.GET("/:id", api.retrieve)

	ag := tg.Group("", jwt)
	ag.POST("", api.create, helpers.RoleMiddleware())
	ag.PUT("/:id", api.update, helpers.RoleMiddleware(author.RoleAdmin, author.RoleTeacher))
	ag.DELETE("/:id", api.delete, helpers.RoleMiddleware(author.RoleAdmin, author.RoleTeacher))
}

func (api *topicApi) query(ctx echo.Context) error {
	topics, err := api.svc.QueryTopics(ctx.Request().Context(), ctx.QueryParam("forumId"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, topics)
}

func (api *topicApi) retrieve(ctx echo.Context) error {
	topic, err := api.svc.GetTopicByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, topic)
}

func (api *topicApi) create(ctx echo.Context) error {
	data := new(forum.NewTopic)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	topic, err := api.svc.CreateTopic(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}

	api.notifier.Broadcast(core.Notification{
		Type:  "topic.created",
		Title: topic.Title,
		Link:  "/forums/" + topic.ForumID + "/topics/" + topic.ID,
	}, core.ToRoom("forum:"+topic.ForumID))
	return ctx.JSON(http.StatusCreated, topic)
}

func (api *topicApi) update(ctx echo.Context) error {
	data := new(forum.UpdateTopic)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	topic, err := api.svc.UpdateTopic(ctx.Request().Context(), ctx.Param("id"), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, topic)
}

func (api *topicApi) delete(ctx echo.Context) error {
	if err := api.svc.DeleteTopic(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
