package transport

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"agendaConsole/internal/modules/appointments/application/usecase"
	"agendaConsole/internal/modules/console/application/form"
	"agendaConsole/internal/modules/console/application/listing"
	reports "agendaConsole/internal/modules/reports/domain"
	"agendaConsole/internal/platform/rest"
	"agendaConsole/internal/shared/httputil"
	"agendaConsole/internal/shared/normalization"
	"agendaConsole/internal/shared/session"
)

func newErrorMapper() *httputil.ErrorMapper {
	return httputil.NewErrorMapper().
		WithMappings(
			httputil.ErrorMapping{Error: session.ErrMissingCredentials, Status: http.StatusBadRequest, Message: "missing credentials"},
			httputil.ErrorMapping{Error: session.ErrNotAuthenticated, Status: http.StatusUnauthorized, Message: "not authenticated"},
			httputil.ErrorMapping{Error: rest.ErrUnauthorized, Status: http.StatusUnauthorized, Message: "credential rejected"},
			httputil.ErrorMapping{Error: rest.ErrForbidden, Status: http.StatusForbidden, Message: "forbidden"},
			httputil.ErrorMapping{Error: rest.ErrNotFound, Status: http.StatusNotFound, Message: "not found"},
		).
		WithMappings(
			httputil.ErrorMapping{Error: listing.ErrUnknownList, Status: http.StatusNotFound, Message: "entity has no list"},
			httputil.ErrorMapping{Error: listing.ErrNoOptions, Status: http.StatusNotFound, Message: "entity has no options"},
			httputil.ErrorMapping{Error: listing.ErrNoReport, Status: http.StatusNotFound, Message: "appointment has no report"},
			httputil.ErrorMapping{Error: listing.ErrConfirmationRequired, Status: http.StatusPreconditionRequired, Message: "confirmation required"},
			httputil.ErrorMapping{Error: listing.ErrDeleteForbidden, Status: http.StatusForbidden, Message: "delete not allowed"},
			httputil.ErrorMapping{Error: listing.ErrInvalidID, Status: http.StatusBadRequest, Message: "invalid id"},
			httputil.ErrorMapping{Error: normalization.ErrInvalidID, Status: http.StatusBadRequest, Message: "invalid id"},
		).
		WithMappings(
			httputil.ErrorMapping{Error: form.ErrUnknownEntity, Status: http.StatusNotFound, Message: "entity has no form"},
			httputil.ErrorMapping{Error: form.ErrFormNotFound, Status: http.StatusNotFound, Message: "form not found"},
			httputil.ErrorMapping{Error: form.ErrNotReady, Status: http.StatusConflict, Message: "form not ready"},
			httputil.ErrorMapping{Error: form.ErrInvalidValues, Status: http.StatusBadRequest, Message: "invalid form values"},
			httputil.ErrorMapping{Error: form.ErrSubmitting, Status: http.StatusConflict, Message: "form already submitting"},
			httputil.ErrorMapping{Error: reports.ErrAlreadyReported, Status: http.StatusConflict, Message: "appointment already has a report"},
		).
		WithMappings(
			httputil.ErrorMapping{Error: usecase.ErrEventNotFound, Status: http.StatusNotFound, Message: "appointment is not in the calendar"},
			httputil.ErrorMapping{Error: usecase.ErrMoveNotFound, Status: http.StatusNotFound, Message: "pending move not found"},
			httputil.ErrorMapping{Error: usecase.ErrInvalidStart, Status: http.StatusBadRequest, Message: "invalid start"},
			httputil.ErrorMapping{Error: usecase.ErrInvalidStatus, Status: http.StatusBadRequest, Message: "invalid status"},
			httputil.ErrorMapping{Error: usecase.ErrClosed, Status: http.StatusGone, Message: "calendar closed"},
		).
		WithDefault(http.StatusBadGateway, "backend request failed")
}

// respondError writes the mapped error; 5xx responses are logged.
func (h *Handlers) respondError(c echo.Context, err error) error {
	info := h.errors.Map(err)
	if info.Status >= http.StatusInternalServerError {
		h.logger.Error("console request failed", slog.String("method", c.Request().Method), slog.String("path", c.Path()), slog.Int("status", info.Status), slog.Any("error", err))
	} else {
		h.logger.Debug("console request rejected", slog.String("path", c.Path()), slog.Int("status", info.Status), slog.Any("error", err))
	}
	return c.JSON(info.Status, info)
}
