package http

import (
	"net/http"

	"creditly-backend/internal/usecase/subscription"

	"github.com/labstack/echo/v4"
)

type SubscriptionHandler struct{ uc *subscription.Usecase }

func NewSubscriptionHandler(uc *subscription.Usecase) *SubscriptionHandler {
	return &SubscriptionHandler{uc: uc}
}

type subscribeReq struct {
	PlanID     uint64  `json:"plan_id"     validate:"required"`
	AmountPaid float64 `json:"amount_paid" validate:"required,gt=0,dec2"`
	ProofRef   string  `json:"proof_ref"   validate:"required"`
}

func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	uid := userID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Code: "unauthorized", Error: "missing Ax-User-Id"})
	}
	var req subscribeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "bad_request", Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Code:    "validation_failed",
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Subscribe(c.Request().Context(), subscription.SubscribeInput{
		UserID:     uid,
		PlanID:     req.PlanID,
		AmountPaid: req.AmountPaid,
		ProofRef:   req.ProofRef,
	})
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *SubscriptionHandler) CurrentSubscription(c echo.Context) error {
	uid := userID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Code: "unauthorized", Error: "missing Ax-User-Id"})
	}
	dto, err := h.uc.Current(c.Request().Context(), uid)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *SubscriptionHandler) ListMySubscriptions(c echo.Context) error {
	uid := userID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Code: "unauthorized", Error: "missing Ax-User-Id"})
	}
	dtos, err := h.uc.ListForUser(c.Request().Context(), uid)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}
