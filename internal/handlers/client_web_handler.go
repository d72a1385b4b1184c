package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/client-onboarding/internal/logger"
	ucClient "github.com/BruksfildServices01/client-onboarding/internal/usecase/client"
	"github.com/BruksfildServices01/client-onboarding/internal/web"
)

type ClientWebHandler struct {
	create *ucClient.CreateClient
	list   *ucClient.ListClients
	loc    *time.Location
	lggr   *zap.Logger
}

func NewClientWebHandler(
	create *ucClient.CreateClient,
	list *ucClient.ListClients,
	loc *time.Location,
	lggr *zap.Logger,
) *ClientWebHandler {
	return &ClientWebHandler{create: create, list: list, loc: loc, lggr: lggr}
}

// ======================================================
// PAGE
// ======================================================

// Index renders the page shell. The table starts in its loading state and is
// fetched from Table, so every page load re-reads the store.
func (h *ClientWebHandler) Index(c *gin.Context) {
	view := web.PageView{
		Modal: web.ClosedModal(),
		List:  web.LoadingClientListView(),
	}

	if c.Query("modal") == "add" {
		view.Modal = web.OpenModal()
	}
	if c.Query("added") == "1" {
		view.Flash = web.MsgClientAdded
	}

	c.HTML(http.StatusOK, web.PageTemplate, view)
}

// ======================================================
// TABLE FRAGMENT
// ======================================================
func (h *ClientWebHandler) Table(c *gin.Context) {
	clients, err := h.list.Execute(c.Request.Context())
	if err != nil {
		logger.FromContext(c.Request.Context(), h.lggr).Error("list clients failed", zap.Error(err))
	}

	c.HTML(http.StatusOK, web.TableTemplate, web.NewClientListView(clients, err, h.loc))
}

// ======================================================
// FORM SUBMIT
// ======================================================

// Submit handles the modal form. Failures re-render the page with the modal
// open and the typed values kept; success redirects so a reload cannot resubmit.
func (h *ClientWebHandler) Submit(c *gin.Context) {
	in := ucClient.CreateClientInput{
		Name:         c.PostForm("name"),
		Email:        c.PostForm("email"),
		BusinessName: c.PostForm("businessName"),
	}

	res := h.create.Execute(c.Request.Context(), in)
	if !res.OK() {
		c.HTML(http.StatusOK, web.PageTemplate, web.PageView{
			Modal: web.OpenModal(),
			Form: web.FormView{
				Name:         in.Name,
				Email:        in.Email,
				BusinessName: in.BusinessName,
				Error:        res.Error,
			},
			List: web.LoadingClientListView(),
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/?added=1")
}
