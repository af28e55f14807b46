package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// PrinterStatus reports the pairing and lock state.
func (h *Handler) PrinterStatus(w http.ResponseWriter, _ *http.Request) {
	var e jx.Encoder
	encodeStatus(&e, h.pairing.Status())
	writeJSON(w, http.StatusOK, &e)
}

// PairPrinter caches a new printer address.
func (h *Handler) PairPrinter(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	address, err := decodeAddress(data)
	if err != nil {
		writeError(w, r, errors.Wrapf(errBadRequest, "%v", err))
		return
	}
	if err := h.pairing.Pair(address); err != nil {
		writeError(w, r, err)
		return
	}
	zctx.From(r.Context()).Info("Printer paired", zap.String("address", address))

	var e jx.Encoder
	encodeStatus(&e, h.pairing.Status())
	writeJSON(w, http.StatusOK, &e)
}
