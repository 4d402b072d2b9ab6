package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"agendaConsole/internal/modules/console/domain"
	"agendaConsole/internal/modules/console/infrastructure"
)

// notificationsSocket streams the transient notifications and navigation requests.
func (h *Handlers) notificationsSocket(c echo.Context) error {
	if h.Hub == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "notifications unavailable")
	}
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("notifications ws upgrade failed", slog.String("ip", c.RealIP()), slog.Any("error", err))
		return err
	}

	topics := []string{domain.TopicSystemNotification, domain.TopicSystemNavigate}
	client := infrastructure.NewClient(h.Hub, conn, "notifications", 16, h.commands)
	h.Hub.AttachClient(client, topics)

	go client.WritePump()
	go client.ReadPump()

	connected := domain.NewMessage(domain.TopicSystemConnected, map[string]any{
		"mode":   "notifications",
		"topics": topics,
	}, time.Now())
	connected.Metadata = map[string]string{"clientId": client.ID()}
	client.Send(connected)

	h.logger.Info("notifications ws connected", slog.String("clientId", client.ID()), slog.String("ip", c.RealIP()))
	return nil
}
