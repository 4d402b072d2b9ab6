package domain

import "strings"

// Ref is the {id, name} shape of related users, clients and services.
type Ref struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Appointment is the full record of GET /appointments/:id.
type Appointment struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Status      Status `json:"status"`
	Tag         string `json:"tag,omitempty"`
	IsRecurring bool   `json:"isRecurring"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
	User        *Ref   `json:"user,omitempty"`
	Client      *Ref   `json:"client,omitempty"`
	Service     *Ref   `json:"service,omitempty"`
}

func (a Appointment) ClientName() string {
	if a.Client == nil {
		return ""
	}
	return a.Client.Name
}

func (a Appointment) ProfessionalName() string {
	if a.User == nil {
		return ""
	}
	return a.User.Name
}

func (a Appointment) ServiceName() string {
	if a.Service == nil {
		return ""
	}
	return a.Service.Name
}

// Window is the visible date range of a calendar, as ISO strings.
type Window struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (w Window) Empty() bool {
	return strings.TrimSpace(w.From) == "" || strings.TrimSpace(w.To) == ""
}

// Filters narrow an appointment listing. Zero values are omitted from the query.
type Filters struct {
	Window
	UserID   int64  `json:"userId,omitempty"`
	ClientID int64  `json:"clientId,omitempty"`
	Status   Status `json:"status,omitempty"`
}
