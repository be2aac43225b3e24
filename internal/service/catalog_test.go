package service

import (
	"context"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"example.com/logistics/services/odv/internal/model"
)

func TestCatalogLookup(t *testing.T) {
	repo := new(MockCatalogRepository)
	cacheClient := new(MockCacheClient)
	svc := NewCatalogService(repo, cacheClient)

	item := &model.ItemCatalogo{Catalogo: model.CatalogoLugares, Codigo: 1, Nombre: "Puerto San Antonio"}

	cacheClient.On("GetItemCatalogo", mock.Anything, model.CatalogoLugares, uint(1)).Return(nil, redis.Nil)
	repo.On("Lookup", mock.Anything, model.CatalogoLugares, uint(1)).Return(item, nil)
	cacheClient.On("SetItemCatalogo", mock.Anything, item).Return(nil)

	got, err := svc.Lookup(context.Background(), model.CatalogoLugares, 1)
	require.NoError(t, err)
	require.Equal(t, "Puerto San Antonio", got.Nombre)
	repo.AssertExpectations(t)
	cacheClient.AssertExpectations(t)
}

func TestCatalogLookupCacheHit(t *testing.T) {
	repo := new(MockCatalogRepository)
	cacheClient := new(MockCacheClient)
	svc := NewCatalogService(repo, cacheClient)

	item := &model.ItemCatalogo{Catalogo: model.CatalogoAcciones, Codigo: 8, Nombre: "Porteo"}
	cacheClient.On("GetItemCatalogo", mock.Anything, model.CatalogoAcciones, uint(8)).Return(item, nil)

	got, err := svc.Lookup(context.Background(), model.CatalogoAcciones, 8)
	require.NoError(t, err)
	require.Equal(t, item, got)
	repo.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogUnknownName(t *testing.T) {
	repo := new(MockCatalogRepository)
	cacheClient := new(MockCacheClient)
	svc := NewCatalogService(repo, cacheClient)

	_, err := svc.Lookup(context.Background(), "clientes", 1)
	require.ErrorIs(t, err, ErrCatalogoDesconocido)

	_, err = svc.ListCatalog(context.Background(), "clientes")
	require.ErrorIs(t, err, ErrCatalogoDesconocido)
}

func TestCatalogList(t *testing.T) {
	repo := new(MockCatalogRepository)
	cacheClient := new(MockCacheClient)
	svc := NewCatalogService(repo, cacheClient)

	items := []*model.ItemCatalogo{
		{Catalogo: model.CatalogoNavieras, Codigo: 1, Nombre: "Maersk"},
		{Catalogo: model.CatalogoNavieras, Codigo: 2, Nombre: "MSC"},
	}
	repo.On("ListCatalog", mock.Anything, model.CatalogoNavieras).Return(items, nil)

	got, err := svc.ListCatalog(context.Background(), model.CatalogoNavieras)
	require.NoError(t, err)
	require.Len(t, got, 2)
	repo.AssertExpectations(t)
}
