package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	quransvc "github.com/maktab-app/maktab/services/quran"
)

type quranApi struct {
	client *quransvc.Client
}

// RegisterQuranAPI mounts the read-only scripture proxy. Content is public.
func RegisterQuranAPI(g *echo.Group, client *quransvc.Client) {
	api := quranApi{client: client}

	qg := g.Group("/quran")
	qg.GET("/surahs", api.listSurahs)
	qg.GET("/surahs/:number", api.retrieveSurah)
	qg.GET("/ayahs/:reference", api.retrieveAyah)
}

func (api *quranApi) listSurahs(ctx echo.Context) error {
	surahs, err := api.client.ListSurahs(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, surahs)
}

func (api *quranApi) retrieveSurah(ctx echo.Context) error {
	number, err := strconv.Atoi(ctx.Param("number"))
	if err != nil || number < 1 || number > 114 {
		return echo.NewHTTPError(http.StatusBadRequest, "surah number must be between 1 and 114")
	}

	surah, err := api.client.GetSurah(ctx.Request().Context(), number)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, surah)
}

func (api *quranApi) retrieveAyah(ctx echo.Context) error {
	ayah, err := api.client.GetAyah(ctx.Request().Context(), ctx.Param("reference"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ayah)
}
