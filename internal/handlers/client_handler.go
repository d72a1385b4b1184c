package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/client-onboarding/internal/domain/client"
	"github.com/BruksfildServices01/client-onboarding/internal/httperr"
	"github.com/BruksfildServices01/client-onboarding/internal/httpresp"
	"github.com/BruksfildServices01/client-onboarding/internal/logger"
	ucClient "github.com/BruksfildServices01/client-onboarding/internal/usecase/client"
)

type ClientHandler struct {
	create *ucClient.CreateClient
	list   *ucClient.ListClients
	lggr   *zap.Logger
}

func NewClientHandler(
	create *ucClient.CreateClient,
	list *ucClient.ListClients,
	lggr *zap.Logger,
) *ClientHandler {
	return &ClientHandler{create: create, list: list, lggr: lggr}
}

// ======================================================
// LIST CLIENTS
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.list.Execute(c.Request.Context())
	if err != nil {
		logger.FromContext(c.Request.Context(), h.lggr).Error("list clients failed", zap.Error(err))

		if domain.IsStoreError(err) {
			httperr.BadGateway(c, ucClient.CodeStoreError, domain.StoreMessage(err))
			return
		}
		httperr.Internal(c, "list_failed", "Failed to fetch clients.")
		return
	}

	httpresp.List(c, clients)
}

// ======================================================
// CREATE CLIENT
// ======================================================
func (h *ClientHandler) Create(c *gin.Context) {
	var in ucClient.CreateClientInput
	if err := c.ShouldBindJSON(&in); err != nil {
		httperr.BadRequest(c, "invalid_json", "Invalid request body.")
		return
	}

	res := h.create.Execute(c.Request.Context(), in)
	if !res.OK() {
		if res.Code == ucClient.CodeStoreError {
			httperr.BadGateway(c, res.Code, res.Error)
			return
		}
		httperr.BadRequest(c, res.Code, res.Error)
		return
	}

	c.JSON(http.StatusCreated, res)
}
