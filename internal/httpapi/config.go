package httpapi

// maxBodyBytes controls the maximum allowed request body size for JSON endpoints.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// routeTimeout controls the maximum duration a /tasks/route request may run,
// on top of any load timeout the runtime client enforces. Zero disables it.
var routeTimeout = int64(0) // seconds

// SetRouteTimeoutSeconds sets the route timeout in seconds (0 disables).
func SetRouteTimeoutSeconds(sec int64) {
	if sec < 0 {
		sec = 0
	}
	routeTimeout = sec
}

// defaultMaxIdleMinutes is the idle threshold POST /cleanup uses when the
// request does not carry its own.
var defaultMaxIdleMinutes = int64(30)

// SetDefaultMaxIdleMinutes configures the default cleanup idle threshold.
func SetDefaultMaxIdleMinutes(min int64) {
	if min <= 0 {
		min = 30
	}
	defaultMaxIdleMinutes = min
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}
