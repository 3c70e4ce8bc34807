package http

import (
	"net/http"

	domainLoan "creditly-backend/internal/domain/loan"
	"creditly-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type requestLoanReq struct {
	Amount        float64 `json:"amount"          validate:"required,gt=0,dec2"`
	PayoutPhone   string  `json:"payout_phone"    validate:"required,msisdn"`
	PayoutName    string  `json:"payout_name"     validate:"required"`
	PayoutNetwork string  `json:"payout_network"  validate:"required"`
}

func (h *LoanHandler) RequestLoan(c echo.Context) error {
	uid := userID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Code: "unauthorized", Error: "missing Ax-User-Id"})
	}
	var req requestLoanReq
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
	dto, err := h.uc.Request(c.Request().Context(), loan.RequestLoanInput{
		UserID:        uid,
		Amount:        req.Amount,
		PayoutPhone:   req.PayoutPhone,
		PayoutName:    req.PayoutName,
		PayoutNetwork: req.PayoutNetwork,
	})
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	uid := userID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Code: "unauthorized", Error: "missing Ax-User-Id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeDomainErr(c, err)
	}
	// Another user's loan looks exactly like a missing one.
	if dto.UserID != uid {
		return writeDomainErr(c, domainLoan.ErrNotFound)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ListMyLoans(c echo.Context) error {
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
