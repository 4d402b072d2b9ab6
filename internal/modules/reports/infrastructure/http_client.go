package infrastructure

import (
	"context"
	"net/url"
	"strconv"

	"agendaConsole/internal/modules/reports/domain"
	"agendaConsole/internal/platform/rest"
	"agendaConsole/internal/shared/auth"
	"agendaConsole/internal/shared/normalization"
)

type ReportHTTPClient struct {
	*rest.Resource[domain.Report]
}

func NewReportHTTPClient(client *rest.Client, pageSize int) *ReportHTTPClient {
	return &ReportHTTPClient{Resource: rest.NewResource[domain.Report](client, "/reports", pageSize)}
}

func (c *ReportHTTPClient) Detail(ctx context.Context, cred auth.Credential, id int64) (domain.Detail, error) {
	var detail domain.Detail
	err := c.Client().Get(ctx, cred, c.IDPath(id), nil, &detail)
	return detail, err
}

func (c *ReportHTTPClient) CreateReport(ctx context.Context, cred auth.Credential, form domain.Form) (domain.Report, error) {
	return c.Create(ctx, cred, form.Payload())
}

func (c *ReportHTTPClient) UpdateReport(ctx context.Context, cred auth.Credential, id int64, form domain.Form) (domain.Report, error) {
	return c.Update(ctx, cred, id, form.Payload())
}

// Exists asks in one call which appointments already have a report. No ids, no request.
func (c *ReportHTTPClient) Exists(ctx context.Context, cred auth.Credential, appointmentIDs []int64) (domain.ExistsMap, error) {
	joined := normalization.JoinIDs(appointmentIDs)
	if joined == "" {
		return domain.ExistsMap{}, nil
	}
	exists := domain.ExistsMap{}
	err := c.Client().Get(ctx, cred, c.Path("exists"), url.Values{"appointmentIds": {joined}}, &exists)
	return exists, err
}

// Latest returns the newest report of an appointment, nil when it has none.
func (c *ReportHTTPClient) Latest(ctx context.Context, cred auth.Credential, appointmentID int64) (*domain.Detail, error) {
	var detail *domain.Detail
	path := c.Path("by-appointment", strconv.FormatInt(appointmentID, 10), "latest")
	if err := c.Client().Get(ctx, cred, path, nil, &detail); err != nil {
		return nil, err
	}
	return detail, nil
}
