package sheets

import (
	"context"
	"time"

	"github.com/geocoder89/lentpath/internal/cache"
)

// Factory builds a gateway client, typically NewGoogleGateway bound to the
// configured credentials.
type Factory func(ctx context.Context) (Gateway, error)

const clientKey = "client"

// CachedGateway shares one client across every session for ttl. A failed
// construction is not cached: while it keeps failing every Open reports
// ErrUnavailable and the application runs with login and registration
// disabled.
type CachedGateway struct {
	factory Factory
	clients *cache.Cache[Gateway]
}

func NewCachedGateway(factory Factory, ttl time.Duration, opts ...cache.Option) *CachedGateway {
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &CachedGateway{
		factory: factory,
		clients: cache.New[Gateway](ttl, opts...),
	}
}

func (c *CachedGateway) Client(ctx context.Context) (Gateway, error) {
	return c.clients.GetOrLoad(clientKey, func() (Gateway, error) {
		return c.factory(ctx)
	})
}

func (c *CachedGateway) Open(ctx context.Context, name string) (Table, error) {
	g, err := c.Client(ctx)
	if err != nil {
		return nil, &OpenError{Table: name, Err: ErrUnavailable, Cause: err}
	}

	return g.Open(ctx, name)
}

// Ping reports whether a client can be built, for readiness checks.
func (c *CachedGateway) Ping(ctx context.Context) error {
	_, err := c.Client(ctx)
	return err
}

// Invalidate drops the cached client so the next call rebuilds it.
func (c *CachedGateway) Invalidate() {
	c.clients.Delete(clientKey)
}
