package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	appointmentport "agendaConsole/internal/modules/appointments/application/port"
	appointments "agendaConsole/internal/modules/appointments/domain"
	reports "agendaConsole/internal/modules/reports/domain"
	"agendaConsole/internal/shared/auth"
	"agendaConsole/internal/shared/notify"
)

const (
	AppointmentsLoadFailedMessage = "Error al cargar las citas"
	NoReportMessage               = "Esta cita no tiene reportes."
	ReportLoadFailedMessage       = "No se pudo cargar el reporte"
)

var ErrNoReport = errors.New("appointment has no report")

// ReportFilter narrows the current page by report presence.
type ReportFilter string

const (
	ReportFilterAll     ReportFilter = "all"
	ReportFilterWith    ReportFilter = "with"
	ReportFilterWithout ReportFilter = "without"
)

func ParseReportFilter(raw string) ReportFilter {
	switch ReportFilter(strings.ToLower(strings.TrimSpace(raw))) {
	case ReportFilterWith:
		return ReportFilterWith
	case ReportFilterWithout:
		return ReportFilterWithout
	default:
		return ReportFilterAll
	}
}

// ReportsBackend is what the reports page needs from /reports.
type ReportsBackend interface {
	Exists(ctx context.Context, cred auth.Credential, appointmentIDs []int64) (reports.ExistsMap, error)
	Latest(ctx context.Context, cred auth.Credential, appointmentID int64) (*reports.Detail, error)
	Detail(ctx context.Context, cred auth.Credential, id int64) (reports.Detail, error)
}

// ReportRow is one appointment of the reports page.
type ReportRow struct {
	Appointment appointments.Appointment `json:"appointment"`
	HasReport   bool                     `json:"hasReport"`
}

type ReportPage struct {
	Rows   []ReportRow  `json:"rows"`
	Filter ReportFilter `json:"filter"`
	// ExistsKnown is false when the batch lookup failed; the filter is then not applied.
	ExistsKnown bool  `json:"existsKnown"`
	Pager       Pager `json:"pager"`
}

// ReportBoard joins a page of appointments with the batch "has report" lookup.
type ReportBoard struct {
	Appointments appointmentport.AppointmentGateway
	Reports      ReportsBackend
	Credentials  auth.CredentialSource
	PageSize     int
	Notifier     notify.Notifier
}

func (b *ReportBoard) credential() auth.Credential {
	if b.Credentials == nil {
		return auth.Anonymous
	}
	return b.Credentials.Credential()
}

func (b *ReportBoard) Page(ctx context.Context, page int, filter ReportFilter) (ReportPage, error) {
	limit := b.PageSize
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}
	cred := b.credential()
	loaded, err := b.Appointments.Search(ctx, cred, appointments.Filters{}, page, limit)
	if err != nil {
		slog.Error("reports page load failed", slog.Int("page", page), slog.Any("error", err))
		notify.Error(b.Notifier, AppointmentsLoadFailedMessage)
		return ReportPage{}, fmt.Errorf("list appointments: %w", err)
	}

	ids := make([]int64, 0, len(loaded.Data))
	for _, appointment := range loaded.Data {
		ids = append(ids, appointment.ID)
	}
	exists, err := b.Reports.Exists(ctx, cred, ids)
	known := err == nil
	if err != nil {
		slog.Warn("report exists lookup failed", slog.Any("error", err))
	}

	rows := make([]ReportRow, 0, len(loaded.Data))
	for _, appointment := range loaded.Data {
		has := exists[appointment.ID]
		if known && filter == ReportFilterWith && !has {
			continue
		}
		if known && filter == ReportFilterWithout && has {
			continue
		}
		rows = append(rows, ReportRow{Appointment: appointment, HasReport: has})
	}
	return ReportPage{Rows: rows, Filter: filter, ExistsKnown: known, Pager: NewPager(loaded.Meta)}, nil
}

// Latest returns the newest report of an appointment or ErrNoReport.
func (b *ReportBoard) Latest(ctx context.Context, appointmentID int64) (reports.Detail, error) {
	detail, err := b.Reports.Latest(ctx, b.credential(), appointmentID)
	if err != nil {
		slog.Error("latest report load failed", slog.Int64("appointmentId", appointmentID), slog.Any("error", err))
		notify.Error(b.Notifier, ReportLoadFailedMessage)
		return reports.Detail{}, fmt.Errorf("latest report of %d: %w", appointmentID, err)
	}
	if detail == nil {
		notify.Info(b.Notifier, NoReportMessage)
		return reports.Detail{}, ErrNoReport
	}
	return *detail, nil
}

func (b *ReportBoard) Detail(ctx context.Context, id int64) (reports.Detail, error) {
	detail, err := b.Reports.Detail(ctx, b.credential(), id)
	if err != nil {
		notify.Error(b.Notifier, ReportLoadFailedMessage)
		return reports.Detail{}, fmt.Errorf("report %d: %w", id, err)
	}
	return detail, nil
}

// Exists passes the batch lookup through for the console surface.
func (b *ReportBoard) Exists(ctx context.Context, ids []int64) (reports.ExistsMap, error) {
	return b.Reports.Exists(ctx, b.credential(), ids)
}
