package sheets

import (
	"context"
	"fmt"

	"github.com/geocoder89/lentpath/internal/cache"
	"github.com/geocoder89/lentpath/internal/config"
)

// FromConfig builds the gateway selected by SHEETS_BACKEND, wrapped in an
// ObservedGateway reporting to obs (which may be nil).
func FromConfig(cfg config.Config, obs Observer, opts ...cache.Option) (*ObservedGateway, error) {
	switch cfg.SheetsBackend {
	case config.BackendMemory:
		g, err := LoadFixture(cfg.SheetsFixture)
		if err != nil {
			return nil, err
		}
		return NewObservedGateway(g, obs), nil

	case config.BackendGoogle, "":
		factory := func(ctx context.Context) (Gateway, error) {
			creds, err := cfg.Credentials()
			if err != nil {
				return nil, err
			}
			// the client outlives the request that happened to build it
			return NewGoogleGateway(context.WithoutCancel(ctx), creds)
		}
		return NewObservedGateway(NewCachedGateway(factory, cfg.ClientTTL, opts...), obs), nil

	default:
		return nil, fmt.Errorf("unknown sheets backend %q", cfg.SheetsBackend)
	}
}
