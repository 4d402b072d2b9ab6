package infrastructure

import (
	"context"

	"agendaConsole/internal/modules/users/domain"
	"agendaConsole/internal/platform/rest"
	"agendaConsole/internal/shared/auth"
)

// UserHTTPClient talks to /users. The backend returns a bare array for the list, which the
// resource wraps into a single page.
type UserHTTPClient struct {
	*rest.Resource[domain.User]
}

func NewUserHTTPClient(client *rest.Client, pageSize int) *UserHTTPClient {
	return &UserHTTPClient{Resource: rest.NewResource[domain.User](client, "/users", pageSize)}
}

func (c *UserHTTPClient) CreateUser(ctx context.Context, cred auth.Credential, form domain.Form) (domain.User, error) {
	return c.Create(ctx, cred, form.Payload())
}

func (c *UserHTTPClient) UpdateUser(ctx context.Context, cred auth.Credential, id int64, form domain.Form) (domain.User, error) {
	return c.Update(ctx, cred, id, form.Payload())
}

func (c *UserHTTPClient) All(ctx context.Context, cred auth.Credential) ([]domain.User, error) {
	page, err := c.List(ctx, cred, rest.PagedQuery{Page: 1, Limit: 500})
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}
