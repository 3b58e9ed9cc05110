package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/homeharmony/backend/api/transport"
	"github.com/homeharmony/backend/domain"
	"github.com/homeharmony/backend/pkg/httpcontext"
	memberUC "github.com/homeharmony/backend/usecase/member"
)

type MemberHandler struct {
	baseHandler
	uc *memberUC.UseCase
}

func NewMemberHandler(uc *memberUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *MemberHandler {
	return &MemberHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List household members in rotation order
// @Tags members
// @Router /api/v1/members [get]
func (h *MemberHandler) ListMembers(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	members, err := h.uc.ListMembers(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewMemberResponses(members))
}

// @Summary Current member
// @Tags members
// @Router /api/v1/members/me [get]
func (h *MemberHandler) Me(ctx *fasthttp.RequestCtx) {
	memberID := h.memberID(ctx)
	if memberID == "" {
		return
	}
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	member, err := h.uc.GetMember(stdCtx, memberID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewMemberResponse(*member))
}

// @Summary Add a member
// @Tags members
// @Router /api/v1/members [post]
func (h *MemberHandler) AddMember(ctx *fasthttp.RequestCtx) {
	actorID := h.memberID(ctx)
	if actorID == "" {
		return
	}
	var req transport.MemberCreateRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	actor, err := h.uc.GetMember(stdCtx, actorID)
	if err != nil {
		h.respondError(ctx, domain.ErrUnauthorized)
		return
	}
	if !actor.IsAdmin {
		h.respondError(ctx, domain.ErrAdminRequired)
		return
	}

	created, err := h.uc.AddMember(stdCtx, &domain.Member{
		Name:   req.Name,
		Avatar: req.Avatar,
		Color:  req.Color,
	}, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, transport.NewMemberResponse(*created))
}

// @Summary Update a member profile
// @Tags members
// @Router /api/v1/members/{id} [put]
func (h *MemberHandler) UpdateMember(ctx *fasthttp.RequestCtx) {
	actorID := h.memberID(ctx)
	if actorID == "" {
		return
	}
	targetID, ok := h.pathID(ctx)
	if !ok {
		return
	}
	var req transport.MemberUpdateRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateMember(stdCtx, actorID, targetID, memberUC.Profile{
		Name:     req.Name,
		Avatar:   req.Avatar,
		Color:    req.Color,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewMemberResponse(*updated))
}

// @Summary Grant or revoke admin
// @Tags members
// @Router /api/v1/members/{id}/admin [post]
func (h *MemberHandler) ToggleAdmin(ctx *fasthttp.RequestCtx) {
	actorID := h.memberID(ctx)
	if actorID == "" {
		return
	}
	targetID, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.ToggleAdmin(stdCtx, actorID, targetID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewMemberResponse(*updated))
}

// @Summary Remove a member
// @Tags members
// @Router /api/v1/members/{id} [delete]
func (h *MemberHandler) DeleteMember(ctx *fasthttp.RequestCtx) {
	actorID := h.memberID(ctx)
	if actorID == "" {
		return
	}
	targetID, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteMember(stdCtx, actorID, targetID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}
