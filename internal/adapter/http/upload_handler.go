package http

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"creditly-backend/internal/domain/storage"
	"creditly-backend/pkg/id"

	"github.com/labstack/echo/v4"
)

const maxUploadBytes = 5 * 1024 * 1024

type UploadHandler struct{ store storage.Store }

func NewUploadHandler(store storage.Store) *UploadHandler { return &UploadHandler{store: store} }

// Upload stores one proof document and returns its ref. Contents are opaque
// to the engine; only the ref travels through KYC/repayment/subscription
// flows.
func (h *UploadHandler) Upload(c echo.Context) error {
	uid := userID(c)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Code: "unauthorized", Error: "missing Ax-User-Id"})
	}
	fh, err := c.FormFile("document")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "bad_request", Error: "missing document file"})
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Code: "too_large", Error: "document exceeds size limit"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "bad_request", Error: "unreadable document"})
	}
	defer src.Close()

	key := fmt.Sprintf("proofs/%s/%d-%s%s", uid, time.Now().UTC().Unix(), id.NewID32(), filepath.Ext(fh.Filename))
	ref, err := h.store.Put(c.Request().Context(), key, fh.Header.Get("Content-Type"), src, fh.Size)
	if err != nil {
		return c.JSON(http.StatusBadGateway, ErrorResponse{Code: "storage_unavailable", Error: "could not store document"})
	}
	return c.JSON(http.StatusCreated, map[string]string{"proof_ref": ref})
}
