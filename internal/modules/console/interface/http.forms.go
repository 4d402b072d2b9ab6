package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"agendaConsole/internal/modules/console/application/form"
)

func (h *Handlers) registerForms(g *echo.Group) {
	if h.Forms == nil {
		return
	}
	g.POST("/forms/:entity", h.openForm)
	g.GET("/forms/:formId", h.formView)
	g.PUT("/forms/:formId/values", h.formValues)
	g.POST("/forms/:formId/submit", h.submitForm)
	g.DELETE("/forms/:formId", h.closeForm)
}

type openFormRequest struct {
	// ID is the record to edit; a number or a numeric string, empty for a new record.
	ID json.RawMessage `json:"id"`
}

func (r openFormRequest) rawID() string {
	raw := strings.TrimSpace(string(r.ID))
	if raw == "null" {
		return ""
	}
	return strings.Trim(raw, `"`)
}

func (h *Handlers) openForm(c echo.Context) error {
	var req openFormRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid body"})
		}
	}
	// the load outlives this request; its result lands in the form either way
	loadCtx := context.WithoutCancel(c.Request().Context())
	formID, session, done, err := h.Forms.Start(loadCtx, c.Param("entity"), req.rawID())
	if err != nil {
		return h.respondError(c, err)
	}
	select {
	case <-done:
	case <-c.Request().Context().Done():
	}
	return c.JSON(http.StatusCreated, withFormID(session.View(), formID))
}

func (h *Handlers) formView(c echo.Context) error {
	formID := c.Param("formId")
	session, err := h.Forms.Get(formID)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, withFormID(session.View(), formID))
}

func (h *Handlers) formValues(c echo.Context) error {
	formID := c.Param("formId")
	session, err := h.Forms.Get(formID)
	if err != nil {
		return h.respondError(c, err)
	}
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid body"})
	}
	if err := session.SetValuesJSON(body); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, withFormID(session.View(), formID))
}

func (h *Handlers) submitForm(c echo.Context) error {
	formID := c.Param("formId")
	session, err := h.Forms.Get(formID)
	if err != nil {
		return h.respondError(c, err)
	}
	if err := session.Submit(c.Request().Context()); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, withFormID(session.View(), formID))
}

func (h *Handlers) closeForm(c echo.Context) error {
	if err := h.Forms.Drop(c.Param("formId")); err != nil {
		return h.respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func withFormID(view form.View, formID string) form.View {
	view.FormID = formID
	return view
}
