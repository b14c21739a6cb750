package constant

const (
	ContextKeyRequestID = "requestid"

	RequestIDHeader = "X-Lottostats-Request-ID"
	AdminKeyHeader  = "X-Admin-Key"
	CacheHeader     = "X-Lottostats-Cache"

	// SlimHeaderKey marks requests, typically health checks, that Sentry tracing skips.
	SlimHeaderKey = "X-Slim"
)
