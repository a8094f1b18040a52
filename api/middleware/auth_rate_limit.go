package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/hanbitlee/furnimarket-backend/api/responses"
	pkgerrors "github.com/hanbitlee/furnimarket-backend/pkg/errors"
	"github.com/hanbitlee/furnimarket-backend/pkg/logger"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// LoginRateLimitPolicy throttles credential guessing per source IP and per
// target email within a fixed window.
type LoginRateLimitPolicy struct {
	window     time.Duration
	ipLimit    int
	emailLimit int
}

func NewLoginRateLimitPolicy(window time.Duration, ipLimit, emailLimit int) LoginRateLimitPolicy {
	return LoginRateLimitPolicy{window: window, ipLimit: ipLimit, emailLimit: emailLimit}
}

func (p LoginRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

// LoginRateLimit enforces per-IP and per-email counters on the login endpoint.
func LoginRateLimit(policy LoginRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := clientIP(r)
			if policy.ipLimit > 0 && ip != "" {
				key := fmt.Sprintf("rl:ip:login:%s", ip)
				if blocked := enforce(ctx, logg, w, store, key, policy.window, policy.ipLimit, "ip"); blocked {
					return
				}
			}

			if policy.emailLimit > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				if email := normalizeEmail(extractEmail(body)); email != "" {
					key := fmt.Sprintf("rl:email:login:%s", hashValue(email))
					if blocked := enforce(ctx, logg, w, store, key, policy.window, policy.emailLimit, "email"); blocked {
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func enforce(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, store rateLimiterStore, key string, window time.Duration, limit int, scope string) bool {
	count, err := store.IncrWithTTL(ctx, key, window)
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
		return true
	}
	if count <= int64(limit) {
		return false
	}

	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"scope":          scope,
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(window.Seconds()),
		})
		logg.Warn(logCtx, "auth.rate_limit.blocked")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
	return true
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func extractEmail(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return body.Email
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
