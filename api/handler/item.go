package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/homeharmony/backend/api/transport"
	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/pkg/httpcontext"
	itemUC "github.com/homeharmony/backend/usecase/item"
)

type ItemHandler struct {
	baseHandler
	uc *itemUC.UseCase
}

func NewItemHandler(uc *itemUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List inventory
// @Tags items
// @Router /api/v1/items [get]
func (h *ItemHandler) ListItems(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	items, err := h.uc.ListItems(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if string(ctx.QueryArgs().Peek("low")) == "true" {
		low := items[:0]
		for _, it := range items {
			if it.IsLowStock() {
				low = append(low, it)
			}
		}
		items = low
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewItemResponses(items))
}

// @Summary Add an item
// @Tags items
// @Router /api/v1/items [post]
func (h *ItemHandler) AddItem(ctx *fasthttp.RequestCtx) {
	var req transport.ItemCreateRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.AddItem(stdCtx, &domain.Item{
		Name:        req.Name,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		Unit:        req.Unit,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, transport.NewItemResponse(*created))
}

// @Summary Update an item
// @Tags items
// @Router /api/v1/items/{id} [put]
func (h *ItemHandler) UpdateItem(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	var req transport.ItemUpdateRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateItem(stdCtx, id, itemUC.ItemPatch{
		Name:        req.Name,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		Unit:        req.Unit,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewItemResponse(*updated))
}

// @Summary Change stock by a delta
// @Tags items
// @Router /api/v1/items/{id}/adjust [post]
func (h *ItemHandler) AdjustItem(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	var req transport.AdjustRequest
	if !h.decode(ctx, &req) {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.AdjustQuantity(stdCtx, id, req.Delta)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewItemResponse(*updated))
}

// @Summary Remove an item
// @Tags items
// @Router /api/v1/items/{id} [delete]
func (h *ItemHandler) DeleteItem(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteItem(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}
