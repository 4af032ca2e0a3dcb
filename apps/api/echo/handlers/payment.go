package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/maktab-app/maktab/apps/api/echo/helpers"
	"github.com/maktab-app/maktab/core"
	"github.com/maktab-app/maktab/core/author"
	"github.com/maktab-app/maktab/core/billing"
)

type paymentApi struct {
	svc      *billing.Service
	notifier core.Notifier
	validate *validator.Validate
}

// RegisterBillingAPI mounts the payment surface. All routes require auth;
// writes are restricted to admins.
func RegisterBillingAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *billing.Service, notifier core.Notifier, validate *validator.Validate) {
	api := paymentApi{svc: svc, notifier: notifier, validate: validate}

	pg := g.Group("/payments", jwt)
	pg.GET("", api.query, helpers.RoleMiddleware(author.RoleAdmin, author.RoleParent))
	pg.GET("/:id", api.retrieve, helpers.RoleMiddleware(author.RoleAdmin, author.RoleParent))
	pg.POST("", api.create, helpers.RoleMiddleware(author.RoleAdmin))
	pg.PUT("/:id", api.update, helpers.RoleMiddleware(author.RoleAdmin))
	pg.DELETE("/:id", api.delete, helpers.RoleMiddleware(author.RoleAdmin))
}

func (api *paymentApi) query(ctx echo.Context) error {
	payments, err := api.svc.Query(ctx.Request().Context(), ctx.QueryParam("enrollmentId"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, payments)
}

func (api *paymentApi) retrieve(ctx echo.Context) error {
	pmt, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, pmt)
}

func (api *paymentApi) create(ctx echo.Context) error {
	data := new(billing.NewPayment)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	pmt, err := api.svc.Create(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}

	api.notifier.Broadcast(core.Notification{
		Type:  "payment.recorded",
		Title: fmt.Sprintf("Payment of %d recorded", pmt.Amount),
		Link:  "/payments/" + pmt.ID,
	}, core.ToRoom("enrollment:"+pmt.EnrollmentID))
	return ctx.JSON(http.StatusCreated, pmt)
}

func (api *paymentApi) update(ctx echo.Context) error {
	data := new(billing.UpdatePayment)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	pmt, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, pmt)
}

func (api *paymentApi) delete(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
