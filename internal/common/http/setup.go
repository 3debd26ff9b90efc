package http

import (
	"net/http"

	"github.com/rmelnikov/authgate/internal/common/constants"
	"github.com/rmelnikov/authgate/internal/common/httpmetrics"
	"github.com/rmelnikov/authgate/internal/common/logger"
)

// BuildBaseHandler wires the shared middleware chain around the API handler.
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	metrics := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(recovery(TraceIDMiddleware(maxRequestSize(metrics.Wrap(handler)))))
}
