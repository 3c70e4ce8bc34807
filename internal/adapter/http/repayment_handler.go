package http

import (
	"net/http"

	"creditly-backend/internal/usecase/repayment"

	"github.com/labstack/echo/v4"
)

type RepaymentHandler struct{ uc *repayment.Usecase }

func NewRepaymentHandler(uc *repayment.Usecase) *RepaymentHandler {
	return &RepaymentHandler{uc: uc}
}

type declareRepaymentReq struct {
	Amount   float64 `json:"amount"    validate:"required,gt=0,dec2"`
	ProofRef string  `json:"proof_ref" validate:"required"`
}

func (h *RepaymentHandler) DeclareRepayment(c echo.Context) error {
	uid := userID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Code: "unauthorized", Error: "missing Ax-User-Id"})
	}
	var req declareRepaymentReq
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
	dto, err := h.uc.Declare(c.Request().Context(), repayment.DeclareInput{
		LoanID:   c.Param("loan_id"),
		UserID:   uid,
		Amount:   req.Amount,
		ProofRef: req.ProofRef,
	})
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *RepaymentHandler) ListMyRepayments(c echo.Context) error {
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
