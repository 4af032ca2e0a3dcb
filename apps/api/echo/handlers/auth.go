package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/maktab-app/maktab/apps/api/echo/helpers"
	"github.com/maktab-app/maktab/core/author"
)

type (
	authApi struct {
		dir      author.Directory
		validate *validator.Validate
	}

	loginRequest struct {
		Role     author.Role `json:"role" validate:"required,oneof=admin teacher parent student"`
		Email    string      `json:"email" validate:"required,email"`
		Password string      `json:"password" validate:"required"`
	}

	loginResponse struct {
		Token string      `json:"token"`
		ID    string      `json:"id"`
		Role  author.Role `json:"role"`
		Name  string      `json:"name"`
		Email string      `json:"email"`
	}
)

func RegisterAuthAPI(g *echo.Group, dir author.Directory, validate *validator.Validate) {
	api := authApi{dir: dir, validate: validate}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
}

func (api *authApi) login(ctx echo.Context) error {
	data := new(loginRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	claims, err := helpers.Authenticate(ctx.Request().Context(), api.dir, data.Role, data.Email, data.Password)
	if err != nil {
		return err
	}
	token, err := helpers.GenerateToken(claims)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, loginResponse{
		Token: token,
		ID:    claims.Subject,
		Role:  claims.Role,
		Name:  claims.Name,
		Email: claims.Email,
	})
}
