package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/homeharmony/backend/pkg/httpcontext"
	dashboardUC "github.com/homeharmony/backend/usecase/dashboard"
)

type DashboardHandler struct {
	baseHandler
	uc *dashboardUC.UseCase
}

func NewDashboardHandler(uc *dashboardUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{baseHandler: newBaseHandler(adapter, logger), uc: uc}
}

// @Summary Household summary
// @Tags dashboard
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) Summary(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	summary, err := h.uc.Summary(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, summary)
}
