package infrastructure

import (
	"context"

	"agendaConsole/internal/modules/clients/domain"
	"agendaConsole/internal/platform/rest"
	"agendaConsole/internal/shared/auth"
)

// ClientHTTPClient talks to /clients on the booking backend.
type ClientHTTPClient struct {
	*rest.Resource[domain.Client]
}

func NewClientHTTPClient(client *rest.Client, pageSize int) *ClientHTTPClient {
	return &ClientHTTPClient{Resource: rest.NewResource[domain.Client](client, "/clients", pageSize)}
}

func (c *ClientHTTPClient) CreateClient(ctx context.Context, cred auth.Credential, form domain.Form) (domain.Client, error) {
	return c.Create(ctx, cred, form.Payload())
}

func (c *ClientHTTPClient) UpdateClient(ctx context.Context, cred auth.Credential, id int64, form domain.Form) (domain.Client, error) {
	return c.Update(ctx, cred, id, form.Payload())
}

// History lists the appointments of one client.
func (c *ClientHTTPClient) History(ctx context.Context, cred auth.Credential, id int64) ([]domain.HistoryEntry, error) {
	raw, err := c.Client().GetRaw(ctx, cred, c.IDPath(id, "appointments"), nil)
	if err != nil {
		return nil, err
	}
	page, err := rest.DecodePage[domain.HistoryEntry](raw)
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// All returns every client without pagination, for selects.
func (c *ClientHTTPClient) All(ctx context.Context, cred auth.Credential) ([]domain.Client, error) {
	return c.ListAll(ctx, cred, "all")
}
