package web

import (
	"time"

	domain "github.com/BruksfildServices01/client-onboarding/internal/domain/client"
	"github.com/BruksfildServices01/client-onboarding/internal/dto"
	"github.com/BruksfildServices01/client-onboarding/internal/timezone"
)

// ======================================================
// CLIENT LIST
// ======================================================

type ListState string

const (
	ListLoading ListState = "loading"
	ListError   ListState = "error"
	ListLoaded  ListState = "loaded"
)

const (
	MsgFetchFailed = "Failed to fetch clients."
	MsgNoClients   = "No clients found."
)

type ClientRow struct {
	Name         string
	Email        string
	BusinessName string
	AddedDate    string
}

// ClientListView is in exactly one state. Rows is empty unless State is
// ListLoaded.
type ClientListView struct {
	State ListState
	Error string
	Rows  []ClientRow
}

func (v ClientListView) Empty() bool {
	return v.State == ListLoaded && len(v.Rows) == 0
}

func LoadingClientListView() ClientListView {
	return ClientListView{State: ListLoading}
}

// NewClientListView turns the outcome of a list fetch into what the table shows.
func NewClientListView(clients []dto.ClientListDTO, err error, loc *time.Location) ClientListView {
	if err != nil {
		msg := MsgFetchFailed
		if domain.IsStoreError(err) {
			msg = "Database error: " + domain.StoreMessage(err)
		}
		return ClientListView{State: ListError, Error: msg}
	}

	rows := make([]ClientRow, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, ClientRow{
			Name:         c.Name,
			Email:        c.Email,
			BusinessName: c.BusinessName,
			AddedDate:    timezone.Format(c.CreatedAt, loc),
		})
	}

	return ClientListView{State: ListLoaded, Rows: rows}
}

// ======================================================
// FORM / MODAL
// ======================================================

const (
	ModalTitle     = "Add Client"
	MsgClientAdded = "Client added successfully!"
)

type FormView struct {
	Name         string
	Email        string
	BusinessName string
	Error        string
}

type ModalView struct {
	Open  bool
	Title string
}

func ClosedModal() ModalView {
	return ModalView{Title: ModalTitle}
}

func OpenModal() ModalView {
	return ModalView{Open: true, Title: ModalTitle}
}

// PageView is the data behind the page shell.
type PageView struct {
	Modal ModalView
	Form  FormView
	Flash string
	List  ClientListView
}
