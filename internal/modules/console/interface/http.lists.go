package transport

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"agendaConsole/internal/modules/console/application/listing"
	"agendaConsole/internal/shared/normalization"
)

// reserved query parameters; everything else is forwarded as a filter
var listParams = map[string]struct{}{"page": {}, "limit": {}, "confirm": {}, "filter": {}}

func (h *Handlers) registerLists(g *echo.Group) {
	if h.Catalog == nil {
		return
	}
	for _, entity := range normalization.GetAllValidEntities() {
		lister, err := h.Catalog.List(entity)
		if err != nil {
			continue
		}
		base := "/" + entity
		if entity == "reports" && h.Catalog.Reports != nil {
			g.GET(base, h.reportsPage)
			g.GET(base+"/exists", h.reportsExist)
			g.GET(base+"/latest/:appointmentId", h.latestReport)
			g.GET(base+"/:id", h.reportDetail)
		} else {
			g.GET(base, h.listPage(lister))
		}
		g.GET(base+"/options", h.options(entity))
		g.DELETE(base+"/:id", h.deleteRow(lister))
	}
	if h.Clients != nil {
		g.GET("/clients/:id/appointments", h.clientHistory)
	}
}

func (h *Handlers) listPage(lister listing.Lister) echo.HandlerFunc {
	return func(c echo.Context) error {
		page, limit := pageParams(c)
		result, err := lister.Render(c.Request().Context(), page, limit, filterParams(c))
		if err != nil {
			return h.respondError(c, err)
		}
		return c.JSON(http.StatusOK, result)
	}
}

func (h *Handlers) options(entity string) echo.HandlerFunc {
	return func(c echo.Context) error {
		options, err := h.Catalog.Options.Load(c.Request().Context(), entity)
		if err != nil {
			return h.respondError(c, err)
		}
		return c.JSON(http.StatusOK, options)
	}
}

func (h *Handlers) deleteRow(lister listing.Lister) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c, "id")
		if err != nil {
			return h.respondError(c, err)
		}
		confirmed, _ := strconv.ParseBool(c.QueryParam("confirm"))
		page, limit := pageParams(c)
		result, err := lister.Remove(c.Request().Context(), id, confirmed, page, limit)
		if err != nil {
			return h.respondError(c, err)
		}
		return c.JSON(http.StatusOK, result)
	}
}

func (h *Handlers) clientHistory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}
	history, err := h.Clients.History(c.Request().Context(), h.Session.Credential(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, history)
}

func (h *Handlers) reportsPage(c echo.Context) error {
	page, _ := pageParams(c)
	result, err := h.Catalog.Reports.Page(c.Request().Context(), page, listing.ParseReportFilter(c.QueryParam("filter")))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handlers) reportsExist(c echo.Context) error {
	ids := normalization.SplitIDs(c.QueryParam("appointmentIds"))
	exists, err := h.Catalog.Reports.Exists(c.Request().Context(), ids)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, exists)
}

func (h *Handlers) latestReport(c echo.Context) error {
	id, err := pathID(c, "appointmentId")
	if err != nil {
		return h.respondError(c, err)
	}
	detail, err := h.Catalog.Reports.Latest(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handlers) reportDetail(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.respondError(c, err)
	}
	detail, err := h.Catalog.Reports.Detail(c.Request().Context(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

func pageParams(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(strings.TrimSpace(c.QueryParam("page")))
	limit, _ := strconv.Atoi(strings.TrimSpace(c.QueryParam("limit")))
	return page, limit
}

func filterParams(c echo.Context) map[string]string {
	filters := map[string]string{}
	for key, values := range c.QueryParams() {
		if _, reserved := listParams[key]; reserved || len(values) == 0 {
			continue
		}
		if value := strings.TrimSpace(values[0]); value != "" {
			filters[key] = value
		}
	}
	if len(filters) == 0 {
		return nil
	}
	return filters
}

func pathID(c echo.Context, name string) (int64, error) {
	id, ok, err := normalization.ParseID(c.Param(name))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, normalization.ErrInvalidID
	}
	return id, nil
}
