package http

import (
	"net/http"

	"creditly-backend/internal/usecase/kyc"

	"github.com/labstack/echo/v4"
)

type KycHandler struct{ uc *kyc.Usecase }

func NewKycHandler(uc *kyc.Usecase) *KycHandler { return &KycHandler{uc: uc} }

type submitKycReq struct {
	IDCardRef    string `json:"id_card_ref"   validate:"required"`
	SelfieRef    string `json:"selfie_ref"    validate:"required"`
	ResidenceRef string `json:"residence_ref" validate:"required"`
}

func (h *KycHandler) SubmitKyc(c echo.Context) error {
	uid := userID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Code: "unauthorized", Error: "missing Ax-User-Id"})
	}
	var req submitKycReq
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
	dto, err := h.uc.Submit(c.Request().Context(), kyc.SubmitInput{
		UserID:       uid,
		IDCardRef:    req.IDCardRef,
		SelfieRef:    req.SelfieRef,
		ResidenceRef: req.ResidenceRef,
	})
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *KycHandler) GetMyKyc(c echo.Context) error {
	uid := userID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Code: "unauthorized", Error: "missing Ax-User-Id"})
	}
	dto, err := h.uc.GetForUser(c.Request().Context(), uid)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
