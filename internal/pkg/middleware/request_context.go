package middleware

import (
	"github.com/labstack/echo/v4"
	nrpkg "github.com/piresc/intranet-notify/internal/pkg/newrelic"
	"github.com/piresc/intranet-notify/internal/pkg/requestcontext"
)

const requestContextKey = "request_context"

// RequestContextMiddleware tags every request with a request and trace id,
// reusing the ones sent by the caller. The ids are echoed back in the response
// headers, stored on the request context for ctx-aware logging and attached to
// the New Relic transaction when one is running.
func RequestContextMiddleware(serviceName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqCtx := requestcontext.FromEchoContext(c)
			reqCtx.ServiceName = serviceName
			c.Set(requestContextKey, reqCtx)

			req := c.Request()
			ctx := requestcontext.WithRequestContext(req.Context(), reqCtx)
			c.SetRequest(req.WithContext(ctx))

			header := c.Response().Header()
			header.Set(echo.HeaderXRequestID, reqCtx.RequestID)
			header.Set(requestcontext.HeaderTraceID, reqCtx.TraceID)

			txn := nrpkg.FromContext(ctx)
			nrpkg.AddTransactionAttribute(txn, "request.id", reqCtx.RequestID)
			if reqCtx.TraceID != reqCtx.RequestID {
				nrpkg.AddTransactionAttribute(txn, "trace.id", reqCtx.TraceID)
			}

			return next(c)
		}
	}
}

// GetRequestContext returns the context set by RequestContextMiddleware, or nil
// when the middleware is not installed on the route
func GetRequestContext(c echo.Context) *requestcontext.RequestContext {
	if reqCtx, ok := c.Get(requestContextKey).(*requestcontext.RequestContext); ok {
		return reqCtx
	}
	return nil
}
