package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/salon-receipt/internal/domain/checkout"
	"github.com/xenking/salon-receipt/internal/printer"
)

// errBadRequest marks request decoding failures.
var errBadRequest = errors.New("malformed request body")

// mapError converts a domain error to an HTTP status and client message.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, printer.ErrInvalidAddress):
		return http.StatusBadRequest, printer.UserMessage(err)
	case errors.Is(err, printer.ErrNoPrinterPaired):
		return http.StatusConflict, printer.UserMessage(err)
	case errors.Is(err, printer.ErrPrinterBusy):
		return http.StatusTooManyRequests, printer.UserMessage(err)
	case errors.Is(err, printer.ErrConnectFailed), errors.Is(err, printer.ErrTransmitFailed):
		return http.StatusBadGateway, printer.UserMessage(err)
	case errors.Is(err, checkout.ErrReceiptNotFound):
		return http.StatusNotFound, checkout.ErrReceiptNotFound.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// writeError writes {"code":...,"message":...}. Server errors are logged
// with the underlying cause, which is never sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := mapError(err)
	if code == http.StatusTooManyRequests {
		w.Header().Set("Retry-After", "1")
	}
	lg := zctx.From(r.Context())
	if code >= http.StatusInternalServerError {
		lg.Error("Request failed", zap.Int("code", code), zap.Error(err))
	} else {
		lg.Debug("Request rejected", zap.Int("code", code), zap.Error(err))
	}

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Int(code) })
		e.Field("message", func(e *jx.Encoder) { e.Str(msg) })
	})
	writeJSON(w, code, &e)
}

func writeJSON(w http.ResponseWriter, code int, e *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(e.Bytes())
}
