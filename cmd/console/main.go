package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"agendaConsole/internal/config"
	"agendaConsole/internal/modules/appointments/application/handler"
	"agendaConsole/internal/modules/appointments/application/usecase"
	appointmentsinfra "agendaConsole/internal/modules/appointments/infrastructure"
	authinfra "agendaConsole/internal/modules/auth/infrastructure"
	clientsinfra "agendaConsole/internal/modules/clients/infrastructure"
	"agendaConsole/internal/modules/console/application/form"
	"agendaConsole/internal/modules/console/application/listing"
	"agendaConsole/internal/modules/console/infrastructure"
	transport "agendaConsole/internal/modules/console/interface"
	reportsinfra "agendaConsole/internal/modules/reports/infrastructure"
	servicesinfra "agendaConsole/internal/modules/services/infrastructure"
	usersinfra "agendaConsole/internal/modules/users/infrastructure"
	"agendaConsole/internal/platform/broker"
	"agendaConsole/internal/platform/rest"
	"agendaConsole/internal/shared/auth"
	"agendaConsole/internal/shared/logging"
	"agendaConsole/internal/shared/notify"
	"agendaConsole/internal/shared/session"
)

func main() {
	// Attempt to load variables from .env so local runs honour configuration tweaks.
	if err := godotenv.Overload(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logFile, logger, err := logging.Setup(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Directory: cfg.Logging.Directory,
		AddSource: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.Info("logging initialized", slog.String("directory", cfg.Logging.Directory), slog.String("level", cfg.Logging.Level), slog.String("format", cfg.Logging.Format))
	slog.Info("backend configured", slog.String("baseUrl", cfg.REST.BaseURL), slog.Duration("timeout", cfg.REST.Timeout))

	store, err := session.OpenBoltStore(cfg.Session.StorePath)
	if err != nil {
		slog.Error("session store open failed", slog.String("path", cfg.Session.StorePath), slog.Any("error", err))
		os.Exit(1)
	}
	defer store.Close()

	hub := infrastructure.NewHub()
	outputs := notify.Fanout{
		Notifiers:  []notify.Notifier{hub, notify.LogNotifier{Logger: logging.Component("notify")}},
		Navigators: []notify.Navigator{hub, notify.LogNotifier{Logger: logging.Component("notify")}},
	}

	api := rest.NewClient(cfg.REST.BaseURL, cfg.REST.Timeout, nil)
	var validator auth.TokenValidator = auth.NewJWTValidator(cfg.Security.JWTSecret)
	manager := session.NewManager(authinfra.NewAuthHTTPClient(api), store, validator, outputs, logger)
	api.OnUnauthorized(manager.HandleUnauthorized)

	restoreCtx, restoreCancel := context.WithTimeout(context.Background(), cfg.REST.Timeout)
	if profile, ok, err := manager.Restore(restoreCtx); err != nil {
		slog.Warn("session restore failed", slog.Any("error", err))
	} else if ok {
		slog.Info("session restored", slog.Int64("userId", profile.UserID), slog.String("email", profile.Email))
	}
	restoreCancel()

	pageSize := cfg.Lists.PageSize
	clients := clientsinfra.NewClientHTTPClient(api, pageSize)
	users := usersinfra.NewUserHTTPClient(api, pageSize)
	services := servicesinfra.NewServiceHTTPClient(api, pageSize)
	appointments := appointmentsinfra.NewAppointmentHTTPClient(api, pageSize)
	reports := reportsinfra.NewReportHTTPClient(api, pageSize)

	calendars := usecase.NewCalendarRegistry(usecase.CalendarDeps{
		Gateway:       appointments,
		Credentials:   manager,
		Notifier:      outputs,
		EventDuration: cfg.Calendar.EventDuration,
		FetchLimit:    cfg.Calendar.FetchLimit,
		Logger:        logging.Component("calendar"),
	})
	forms := form.NewRegistry(form.Builders(form.Deps{
		Credentials:  manager,
		Clients:      clients,
		Users:        users,
		Services:     services,
		Appointments: appointments,
		Reports:      reports,
		Calendars:    calendars,
		Notifier:     outputs,
		Navigator:    outputs,
		Logger:       logging.Component("form"),
	}))
	manager.OnEnd(func() {
		if n := forms.DropAll(); n > 0 {
			logger.Info("open forms dropped with the session", slog.Int("forms", n))
		}
	})
	catalog := listing.NewCatalog(listing.CatalogDeps{
		Credentials:  manager,
		Clients:      clients,
		Users:        users,
		Services:     services,
		Appointments: appointments,
		Reports:      reports,
		PageSize:     pageSize,
		CurrentUserID: func() int64 {
			profile, _ := manager.Profile()
			return profile.UserID
		},
		Notifier: outputs,
		Logger:   logging.Component("listing"),
	})

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetOutput(log.Writer())
	transport.NewHandlers(transport.Deps{
		Session:   manager,
		Catalog:   catalog,
		Forms:     forms,
		Clients:   clients,
		Calendars: calendars,
		Hub:       hub,
		Notifier:  outputs,
		Navigator: outputs,
		Logger:    logger,
	}).Register(e)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := broker.NewHandlerRegistry()
	for _, h := range handler.NewAppointmentChangedHandlers(calendars) {
		registry.Register(h)
	}
	slog.Info("kafka config resolved", slog.Any("brokers", cfg.Kafka.Brokers), slog.String("group", cfg.Kafka.GroupID), slog.Any("topics", cfg.Kafka.Topics))
	consumersDone := broker.StartKafkaConsumers(ctx, registry, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topics)

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped", slog.Any("error", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown error", slog.Any("error", err))
	}
	cancel()
	select {
	case <-consumersDone:
	case <-shutdownCtx.Done():
		slog.Warn("kafka consumers did not stop in time")
	}
}
