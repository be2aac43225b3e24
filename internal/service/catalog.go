package service

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"example.com/logistics/services/odv/internal/cache"
	"example.com/logistics/services/odv/internal/model"
	"example.com/logistics/services/odv/internal/repository"
)

// ErrCatalogoDesconocido means the requested catalog name is not one of
// the known catalogs
var ErrCatalogoDesconocido = errors.New("catálogo desconocido")

// CatalogService defines the typed lookup surface over the reference
// catalogs. Lookups resolve display names only; workflow rules always
// operate on raw codes.
type CatalogService interface {
	Lookup(ctx context.Context, catalogo model.Catalogo, codigo uint) (*model.ItemCatalogo, error)
	ListCatalog(ctx context.Context, catalogo model.Catalogo) ([]*model.ItemCatalogo, error)
}

// catalogService implements CatalogService
type catalogService struct {
	repo  repository.CatalogRepository
	cache cache.CacheClient
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo repository.CatalogRepository, cacheClient cache.CacheClient) CatalogService {
	return &catalogService{
		repo:  repo,
		cache: cacheClient,
	}
}

// Lookup resolves one catalog entry by code. A missing entry is an
// explicit ErrNotFound, never a fallback name.
func (s *catalogService) Lookup(ctx context.Context, catalogo model.Catalogo, codigo uint) (*model.ItemCatalogo, error) {
	if !catalogo.Valida() {
		return nil, ErrCatalogoDesconocido
	}

	// Try to get from cache first
	item, err := s.cache.GetItemCatalogo(ctx, catalogo, codigo)
	if err == nil {
		return item, nil
	}
	if err != redis.Nil {
		logrus.WithError(err).Warn("Failed to get catalog item from cache")
	}

	item, err = s.repo.Lookup(ctx, catalogo, codigo)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetItemCatalogo(ctx, item); err != nil {
		logrus.WithError(err).Warn("Failed to cache catalog item")
	}

	return item, nil
}

// ListCatalog lists all entries of a catalog
func (s *catalogService) ListCatalog(ctx context.Context, catalogo model.Catalogo) ([]*model.ItemCatalogo, error) {
	if !catalogo.Valida() {
		return nil, ErrCatalogoDesconocido
	}
	return s.repo.ListCatalog(ctx, catalogo)
}
