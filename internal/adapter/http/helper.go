package http

import (
	"errors"
	"net/http"
	"strings"

	domainKyc "creditly-backend/internal/domain/kyc"
	domainLoan "creditly-backend/internal/domain/loan"
	domainPlan "creditly-backend/internal/domain/plan"
	domainRepay "creditly-backend/internal/domain/repayment"
	domainSub "creditly-backend/internal/domain/subscription"
	domainUser "creditly-backend/internal/domain/user"
	ucLoan "creditly-backend/internal/usecase/loan"
	ucPlan "creditly-backend/internal/usecase/plan"

	"github.com/labstack/echo/v4"
)

// userID extracts the authenticated user from the identity provider's
// header. The engine trusts it as given.
func userID(c echo.Context) string {
	return strings.TrimSpace(c.Request().Header.Get("Ax-User-Id"))
}

func adminID(c echo.Context) string {
	return strings.TrimSpace(c.Request().Header.Get("Ax-Admin-Id"))
}

// writeDomainErr maps domain errors to HTTP status + stable reason code.
// Every rejection a client can see goes through here.
func writeDomainErr(c echo.Context, err error) error {
	type mapping struct {
		target error
		status int
		code   string
	}
	for _, m := range []mapping{
		{domainLoan.ErrInvalidAmount, http.StatusUnprocessableEntity, "invalid_amount"},
		{domainLoan.ErrInvalidPayout, http.StatusUnprocessableEntity, "invalid_payout"},
		{ucLoan.ErrInvalidDecision, http.StatusUnprocessableEntity, "invalid_decision"},
		{domainLoan.ErrNoActiveSubscription, http.StatusConflict, "no_active_subscription"},
		{domainLoan.ErrOverCeiling, http.StatusConflict, "over_ceiling"},
		{domainLoan.ErrOverCapacity, http.StatusConflict, "over_capacity"},
		{domainLoan.ErrAlreadyDecided, http.StatusConflict, "already_decided"},
		{domainLoan.ErrNotFound, http.StatusNotFound, "not_found"},
		{domainRepay.ErrInvalidAmount, http.StatusUnprocessableEntity, "invalid_amount"},
		{domainRepay.ErrExceedsBalance, http.StatusConflict, "exceeds_balance"},
		{domainRepay.ErrAlreadyDecided, http.StatusConflict, "already_decided"},
		{domainRepay.ErrLoanNotActive, http.StatusConflict, "loan_not_active"},
		{domainRepay.ErrNotOwner, http.StatusForbidden, "forbidden"},
		{domainRepay.ErrNotFound, http.StatusNotFound, "not_found"},
		{domainSub.ErrPendingExists, http.StatusConflict, "pending_exists"},
		{domainSub.ErrQuotaExhausted, http.StatusConflict, "quota_exhausted"},
		{domainSub.ErrAlreadyDecided, http.StatusConflict, "already_decided"},
		{domainSub.ErrNotFound, http.StatusNotFound, "not_found"},
		{domainKyc.ErrPartiallyApplied, http.StatusConflict, "partially_applied"},
		{domainKyc.ErrAlreadyDecided, http.StatusConflict, "already_decided"},
		{domainKyc.ErrNotFound, http.StatusNotFound, "not_found"},
		{domainUser.ErrAccountInactive, http.StatusForbidden, "account_inactive"},
		{domainUser.ErrNotFound, http.StatusNotFound, "not_found"},
		{domainPlan.ErrNotFound, http.StatusNotFound, "not_found"},
		{ucPlan.ErrInvalidPlan, http.StatusUnprocessableEntity, "invalid_plan"},
	} {
		if errors.Is(err, m.target) {
			return c.JSON(m.status, ErrorResponse{Code: m.code, Error: m.target.Error()})
		}
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Code: "internal", Error: "internal error"})
}
