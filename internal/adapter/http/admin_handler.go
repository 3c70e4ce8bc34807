package http

import (
	"net/http"
	"strconv"

	"creditly-backend/internal/usecase/kyc"
	"creditly-backend/internal/usecase/loan"
	"creditly-backend/internal/usecase/plan"
	"creditly-backend/internal/usecase/repayment"
	"creditly-backend/internal/usecase/subscription"

	"github.com/labstack/echo/v4"
)

// AdminHandler is the staff-facing mutation surface. Role enforcement is the
// identity provider's job; these handlers only need the admin id for audit
// fields.
type AdminHandler struct {
	loans         *loan.Usecase
	repayments    *repayment.Usecase
	subscriptions *subscription.Usecase
	kycs          *kyc.Usecase
	plans         *plan.Usecase
}

func NewAdminHandler(
	loans *loan.Usecase,
	repayments *repayment.Usecase,
	subscriptions *subscription.Usecase,
	kycs *kyc.Usecase,
	plans *plan.Usecase,
) *AdminHandler {
	return &AdminHandler{
		loans:         loans,
		repayments:    repayments,
		subscriptions: subscriptions,
		kycs:          kycs,
		plans:         plans,
	}
}

func requireAdmin(c echo.Context) (string, bool) {
	aid := adminID(c)
	if aid == "" {
		_ = c.JSON(http.StatusUnauthorized, ErrorResponse{Code: "unauthorized", Error: "missing Ax-Admin-Id"})
		return "", false
	}
	return aid, true
}

// ---- loans ----

type decideLoanReq struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Reason   string `json:"reason"`
}

func (h *AdminHandler) DecideLoan(c echo.Context) error {
	aid, ok := requireAdmin(c)
	if !ok {
		return nil
	}
	var req decideLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "bad_request", Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Code: "validation_failed", Error: "validation failed", Details: ToFieldErrors(err),
		})
	}
	dto, err := h.loans.Decide(c.Request().Context(), loan.DecideLoanInput{
		LoanID:   c.Param("loan_id"),
		AdminID:  aid,
		Decision: loan.Decision(req.Decision),
		Reason:   req.Reason,
	})
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AdminHandler) ListPendingLoans(c echo.Context) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}
	dtos, err := h.loans.ListPending(c.Request().Context())
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

// ---- repayments ----

func (h *AdminHandler) VerifyRepayment(c echo.Context) error {
	aid, ok := requireAdmin(c)
	if !ok {
		return nil
	}
	res, err := h.repayments.Verify(c.Request().Context(), c.Param("repayment_id"), aid)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *AdminHandler) RejectRepayment(c echo.Context) error {
	aid, ok := requireAdmin(c)
	if !ok {
		return nil
	}
	dto, err := h.repayments.Reject(c.Request().Context(), c.Param("repayment_id"), aid)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AdminHandler) ListPendingRepayments(c echo.Context) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}
	dtos, err := h.repayments.ListPending(c.Request().Context())
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

// ---- subscriptions ----

func (h *AdminHandler) ActivateSubscription(c echo.Context) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}
	dto, err := h.subscriptions.Activate(c.Request().Context(), c.Param("subscription_id"))
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type rejectReq struct {
	Reason string `json:"reason" validate:"required"`
}

func (h *AdminHandler) RejectSubscription(c echo.Context) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}
	var req rejectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "bad_request", Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Code: "validation_failed", Error: "validation failed", Details: ToFieldErrors(err),
		})
	}
	dto, err := h.subscriptions.Reject(c.Request().Context(), c.Param("subscription_id"), req.Reason)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AdminHandler) ListPendingSubscriptions(c echo.Context) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}
	dtos, err := h.subscriptions.ListPending(c.Request().Context())
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

// ---- kyc ----

type decideKycReq struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Notes    string `json:"notes"`
	// approve + activate in one call; a partial failure surfaces as
	// partially_applied and the operator retries activation alone
	ActivateAccount bool `json:"activate_account"`
}

func (h *AdminHandler) DecideKyc(c echo.Context) error {
	aid, ok := requireAdmin(c)
	if !ok {
		return nil
	}
	var req decideKycReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "bad_request", Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Code: "validation_failed", Error: "validation failed", Details: ToFieldErrors(err),
		})
	}

	ctx := c.Request().Context()
	subID := c.Param("submission_id")
	if req.Decision == "approve" && req.ActivateAccount {
		dto, err := h.kycs.ApproveAndActivate(ctx, subID, aid, req.Notes)
		if err != nil {
			return writeDomainErr(c, err)
		}
		return c.JSON(http.StatusOK, dto)
	}
	dto, err := h.kycs.Decide(ctx, kyc.DecideInput{
		SubmissionID: subID,
		AdminID:      aid,
		Approve:      req.Decision == "approve",
		Notes:        req.Notes,
	})
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AdminHandler) ActivateAccount(c echo.Context) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}
	if err := h.kycs.ActivateAccount(c.Request().Context(), c.Param("user_id")); err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "activated"})
}

func (h *AdminHandler) ListPendingKyc(c echo.Context) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}
	dtos, err := h.kycs.ListPending(c.Request().Context())
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

// ---- users ----

type registerUserReq struct {
	UserID string `json:"user_id" validate:"required,hex32"`
	Email  string `json:"email"   validate:"required,email"`
	Name   string `json:"name"    validate:"required"`
}

func (h *AdminHandler) RegisterUser(c echo.Context) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}
	var req registerUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "bad_request", Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Code: "validation_failed", Error: "validation failed", Details: ToFieldErrors(err),
		})
	}
	if err := h.kycs.Register(c.Request().Context(), kyc.RegisterInput{
		UserID: req.UserID, Email: req.Email, Name: req.Name,
	}); err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"user_id": req.UserID})
}

// ---- plans ----

func (h *AdminHandler) CreatePlan(c echo.Context) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}
	var req plan.UpsertPlanInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "bad_request", Error: "invalid body"})
	}
	p, err := h.plans.Create(c.Request().Context(), req)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *AdminHandler) UpdatePlan(c echo.Context) error {
	if _, ok := requireAdmin(c); !ok {
		return nil
	}
	pid, err := strconv.ParseUint(c.Param("plan_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "bad_request", Error: "invalid plan_id"})
	}
	var req plan.UpsertPlanInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "bad_request", Error: "invalid body"})
	}
	p, err := h.plans.Update(c.Request().Context(), pid, req)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *AdminHandler) ListPlans(c echo.Context) error {
	ps, err := h.plans.List(c.Request().Context())
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, ps)
}
