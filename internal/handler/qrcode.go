package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	defaultQRSize = 256
	minQRSize     = 128
	maxQRSize     = 1024
)

// QRHandler serves a QR code pointing at the storefront.
type QRHandler struct {
	url string
}

func NewQRHandler(storefrontURL string) *QRHandler {
	return &QRHandler{url: storefrontURL}
}

// RegisterRoutes registers the QR code endpoint on the given Chi router.
func (h *QRHandler) RegisterRoutes(r chi.Router) {
	r.Get("/qrcode.png", h.PNG)
}

// PNG handles GET /api/qrcode.png?size=.
func (h *QRHandler) PNG(w http.ResponseWriter, r *http.Request) {
	if h.url == "" {
		writeError(w, http.StatusNotFound, "storefront URL not configured")
		return
	}
	size := defaultQRSize
	if s := r.URL.Query().Get("size"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < minQRSize || v > maxQRSize {
			writeError(w, http.StatusBadRequest, "size must be between 128 and 1024")
			return
		}
		size = v
	}

	png, err := qrcode.Encode(h.url, qrcode.Medium, size)
	if err != nil {
		writeInternal(w, err, "encode qr code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
