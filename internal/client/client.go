// Package client assembles the marketplace SDK from configuration: one
// backing (memory or rest, never both), the cart with its expiry sweeper, and
// the services layered on top.
package client

import (
	"context"

	"github.com/carbonmarket/carbon-marketplace/internal/backing"
	"github.com/carbonmarket/carbon-marketplace/internal/backing/memory"
	"github.com/carbonmarket/carbon-marketplace/internal/backing/rest"
	"github.com/carbonmarket/carbon-marketplace/internal/cache"
	"github.com/carbonmarket/carbon-marketplace/internal/config"
	apperrors "github.com/carbonmarket/carbon-marketplace/internal/errors"
	service "github.com/carbonmarket/carbon-marketplace/internal/services"
	"github.com/carbonmarket/carbon-marketplace/internal/state"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	Backing   backing.Service
	Cart      *service.CartStore
	Checkout  *service.CheckoutService
	Catalog   *service.CatalogService
	Favorites *service.FavoritesStore
	Ingest    *service.IngestService

	cache cache.Cache
}

// New wires a full client against the configured backing. State (cart,
// favorites, mock dataset) lands in cfg.State.Dir; the catalog cache is only
// attached when redis is configured.
func New(cfg *config.Config) (*Client, error) {
	persist, err := state.NewFileStore(cfg.State.Dir)
	if err != nil {
		return nil, err
	}

	var backingService backing.Service

	switch cfg.Backing.Kind {
	case config.BackingMemory:
		backingService = memory.NewStore(persist)
	case config.BackingRest:
		backingService = rest.NewClient(cfg.Backing.BaseURL, cfg.Backing.Timeout)
	default:
		return nil, apperrors.BadRequestError("Unknown backing kind").WithDetail(cfg.Backing.Kind)
	}

	var catalogCache cache.Cache
	if cfg.RedisConnect.Enabled() {
		catalogCache = cache.NewRedisCache(redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConnect.Addr,
			Password: cfg.RedisConnect.Password,
			DB:       cfg.RedisConnect.DB,
		}), cfg.RedisConnect.TTL)
	}

	cart := service.NewCartStore(persist, cfg.Cart.TTL, cfg.Cart.SweepInterval)

	return &Client{
		Backing:   backingService,
		Cart:      cart,
		Checkout:  service.NewCheckoutService(cart, backingService),
		Catalog:   service.NewCatalogService(backingService, catalogCache, cfg.RedisConnect.TTL),
		Favorites: service.NewFavoritesStore(persist),
		Ingest:    service.NewIngestService(backingService),
		cache:     catalogCache,
	}, nil
}

// Start launches the cart expiry sweeper. It runs until ctx is cancelled or
// Close is called.
func (c *Client) Start(ctx context.Context) {
	c.Cart.StartSweeper(ctx)
}

func (c *Client) Close() error {
	c.Cart.Close()

	if c.cache != nil {
		return c.cache.Close()
	}

	return nil
}
