package repository

import (
	"context"

	"gorm.io/gorm"

	"example.com/logistics/services/odv/internal/db"
	"example.com/logistics/services/odv/internal/model"
)

// CatalogRepository defines the interface for reference catalog lookups.
// Catalogs are read-only from the application's point of view; Seed is only
// used by the seed command.
type CatalogRepository interface {
	Lookup(ctx context.Context, catalogo model.Catalogo, codigo uint) (*model.ItemCatalogo, error)
	ListCatalog(ctx context.Context, catalogo model.Catalogo) ([]*model.ItemCatalogo, error)
	GetMovilByPatente(ctx context.Context, patente string) (*model.Movil, error)
	GetChoferByNombre(ctx context.Context, nombre string) (*model.Chofer, error)
	GetRamplaByID(ctx context.Context, id uint) (*model.Rampla, error)
	Seed(ctx context.Context, items []model.ItemCatalogo, moviles []model.Movil, choferes []model.Chofer, ramplas []model.Rampla) error
}

// catalogRepository implements CatalogRepository
type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// Lookup resolves a catalog entry by its numeric code
func (r *catalogRepository) Lookup(ctx context.Context, catalogo model.Catalogo, codigo uint) (*model.ItemCatalogo, error) {
	var item model.ItemCatalogo
	err := r.db.WithContext(ctx).
		Where("catalogo = ? AND codigo = ?", catalogo, codigo).
		First(&item).Error
	if err != nil {
		if db.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// ListCatalog lists all entries of a catalog ordered by code
func (r *catalogRepository) ListCatalog(ctx context.Context, catalogo model.Catalogo) ([]*model.ItemCatalogo, error) {
	var items []*model.ItemCatalogo
	err := r.db.WithContext(ctx).
		Where("catalogo = ?", catalogo).
		Order("codigo ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// GetMovilByPatente gets a vehicle by plate
func (r *catalogRepository) GetMovilByPatente(ctx context.Context, patente string) (*model.Movil, error) {
	var movil model.Movil
	err := r.db.WithContext(ctx).Where("patente = ?", patente).First(&movil).Error
	if err != nil {
		if db.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &movil, nil
}

// GetChoferByNombre gets a driver by name
func (r *catalogRepository) GetChoferByNombre(ctx context.Context, nombre string) (*model.Chofer, error) {
	var chofer model.Chofer
	err := r.db.WithContext(ctx).Where("nombre = ?", nombre).First(&chofer).Error
	if err != nil {
		if db.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &chofer, nil
}

// GetRamplaByID gets a trailer by ID
func (r *catalogRepository) GetRamplaByID(ctx context.Context, id uint) (*model.Rampla, error) {
	var rampla model.Rampla
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rampla).Error
	if err != nil {
		if db.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rampla, nil
}

// Seed loads the reference data, skipping entries that already exist
func (r *catalogRepository) Seed(ctx context.Context, items []model.ItemCatalogo, moviles []model.Movil, choferes []model.Chofer, ramplas []model.Rampla) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range items {
			if err := tx.Where("catalogo = ? AND codigo = ?", items[i].Catalogo, items[i].Codigo).
				FirstOrCreate(&items[i]).Error; err != nil {
				return err
			}
		}
		for i := range moviles {
			if err := tx.Where("patente = ?", moviles[i].Patente).FirstOrCreate(&moviles[i]).Error; err != nil {
				return err
			}
		}
		for i := range choferes {
			if err := tx.Where("rut = ?", choferes[i].Rut).FirstOrCreate(&choferes[i]).Error; err != nil {
				return err
			}
		}
		for i := range ramplas {
			if err := tx.Where("patente = ?", ramplas[i].Patente).FirstOrCreate(&ramplas[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
