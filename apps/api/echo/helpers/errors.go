package helpers

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/maktab-app/maktab/core"
)

// NewAppHTTPErrorHandler returns an echo error handler that maps application
// errors to HTTP responses. Unknown errors are logged and, if they signal an
// integrity shutdown, escalated via signalShutdown.
func NewAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var (
			code    int
			message interface{}
		)

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
			if origErr == middleware.ErrJWTMissing {
				code = ErrUnauthorized.Code
				message = ErrUnauthorized.Message
			}
		case *core.NotFoundError:
			code = http.StatusNotFound
			message = origErr.Error()
		case *core.ValidationError:
			code = http.StatusBadRequest
			if len(origErr.Fields) > 0 {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			message = fldErrs
		default:
			code = http.StatusInternalServerError
			message = http.StatusText(code)
			logger.Error(err.Error(), err)

			if core.IsShutdown(origErr) {
				signalShutdown()
			}
		}

		if msg, ok := message.(string); ok {
			message = echo.Map{"error": msg}
		}

		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead {
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				logger.Error("sending error response", err)
			}
		}
	}
}
