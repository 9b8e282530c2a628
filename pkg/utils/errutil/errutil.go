package errutil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/segmentor/pkg/utils/logging"
)

// Log writes err with its goerr values and stack, if any
func Log(ctx context.Context, err error, msg string, attrs ...any) {
	if err == nil {
		return
	}

	logger := logging.From(ctx)
	var ge *goerr.Error
	if errors.As(err, &ge) {
		attrs = append(attrs,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		attrs = append(attrs, "error", err.Error())
	}
	logger.Error(msg, attrs...)
}

// HandleHTTP logs the error and writes a JSON error response.
// 4xx errors are logged at warn level since they are caused by the client.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int) {
	if err == nil {
		return
	}

	if statusCode >= http.StatusInternalServerError {
		Log(ctx, err, "HTTP error", "status", statusCode)
	} else {
		logging.From(ctx).Warn("HTTP client error", "status", statusCode, "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	// header already committed
	_ = json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
	}{Error: err.Error()})
}
