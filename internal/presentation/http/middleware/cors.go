package middleware

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/trimtime-pos/internal/config"
)

// registerRequestHeaders are accepted even when CORS_ALLOWED_HEADERS omits
// them; checkout cannot work without them.
var registerRequestHeaders = []string{"Authorization", "Content-Type", IdempotencyKeyHeader}

// registerResponseHeaders are readable by the shell: replay marker, rate
// limit state and the receipt download name.
var registerResponseHeaders = []string{
	"Content-Length",
	"Content-Type",
	"Content-Disposition",
	"X-Request-ID",
	IdempotencyReplayedHeader,
	"X-RateLimit-Limit",
	"X-RateLimit-Remaining",
	"Retry-After",
}

// CORSMiddleware lets the register shell, served from its own origin, call the API
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}

	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		}
	}

	headers := cfg.AllowedHeaders
	if len(headers) == 0 {
		headers = []string{"Accept", "Origin", "X-Request-ID"}
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     methods,
		AllowHeaders:     withHeaders(headers, registerRequestHeaders),
		ExposeHeaders:    registerResponseHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// withHeaders appends each of required missing from headers, ignoring case.
func withHeaders(headers, required []string) []string {
	out := slices.Clone(headers)
	for _, r := range required {
		if !slices.ContainsFunc(out, func(h string) bool { return strings.EqualFold(h, r) }) {
			out = append(out, r)
		}
	}
	return out
}
