package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
)

// NewUpstreamProxy forwards allowed requests to the page and business
// application. Upstream failures become 502 JSON errors.
func NewUpstreamProxy(target *url.URL, logger *slog.Logger) http.Handler {
	if target == nil {
		panic("upstream proxy: target is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			pr.Out.Host = pr.In.Host
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.WarnContext(r.Context(), "upstream request failed",
				"path", r.URL.Path,
				"upstream", target.Host,
				"error", err)
			WriteError(w, ErrorParams{
				Code:    http.StatusBadGateway,
				ErrCode: "upstream_unavailable",
				Err:     errors.New("upstream unavailable"),
			})
		},
	}
}
