package infrastructure

import (
	"context"

	"agendaConsole/internal/modules/services/domain"
	"agendaConsole/internal/platform/rest"
	"agendaConsole/internal/shared/auth"
)

type ServiceHTTPClient struct {
	*rest.Resource[domain.Service]
}

func NewServiceHTTPClient(client *rest.Client, pageSize int) *ServiceHTTPClient {
	return &ServiceHTTPClient{Resource: rest.NewResource[domain.Service](client, "/services", pageSize)}
}

func (c *ServiceHTTPClient) CreateService(ctx context.Context, cred auth.Credential, form domain.Form) (domain.Service, error) {
	return c.Create(ctx, cred, form.Payload())
}

func (c *ServiceHTTPClient) UpdateService(ctx context.Context, cred auth.Credential, id int64, form domain.Form) (domain.Service, error) {
	return c.Update(ctx, cred, id, form.Payload())
}

func (c *ServiceHTTPClient) All(ctx context.Context, cred auth.Credential) ([]domain.Service, error) {
	page, err := c.List(ctx, cred, rest.PagedQuery{Page: 1, Limit: 500})
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}
