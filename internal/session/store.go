// Package session keeps what the web layer needs per visitor: the gorilla
// session carrying the phase and email, and the in-memory workspace holding the
// workbook snapshots of that visitor.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/geocoder89/lentpath/internal/config"
)

// CookieName is the gorilla session name.
const CookieName = "lentpath"

// ErrWeakSecret refuses a store signed with an empty or public key outside dev.
// The cookie carries the phase and the email, so whoever holds the key can
// forge a login.
var ErrWeakSecret = errors.New("SESSION_SECRET must be set to a private value outside dev")

// NewStore builds the session store selected by SESSION_BACKEND. close releases
// the Redis connection and is a no-op for cookies.
func NewStore(ctx context.Context, cfg config.Config) (store sessions.Store, close func() error, err error) {
	if cfg.SessionSecret == "" || (cfg.Env != "dev" && cfg.SessionSecret == config.DevSessionSecret) {
		return nil, nil, ErrWeakSecret
	}

	opts := &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.WorkspaceTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Env == "prod",
		SameSite: http.SameSiteLaxMode,
	}

	switch cfg.SessionBackend {
	case config.SessionRedis:
		client := NewRedisClient(RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
		}

		rs := NewRedisStore(client, []byte(cfg.SessionSecret))
		rs.Options = opts

		return rs, client.Close, nil

	case config.SessionCookie, "":
		cs := sessions.NewCookieStore([]byte(cfg.SessionSecret))
		cs.Options = opts

		return cs, func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}
