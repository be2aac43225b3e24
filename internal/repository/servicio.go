package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"example.com/logistics/services/odv/internal/db"
	"example.com/logistics/services/odv/internal/model"
)

// ServicioRepository defines the interface for service record persistence
type ServicioRepository interface {
	Create(ctx context.Context, servicio *model.Servicio) (*model.Servicio, error)
	Update(ctx context.Context, servicio *model.Servicio) (*model.Servicio, error)
	GetByID(ctx context.Context, id uint) (*model.Servicio, error)
	List(ctx context.Context) ([]*model.Servicio, error)
	FindByEstado(ctx context.Context, estado model.EstadoServicio) ([]*model.Servicio, error)
	FindByImportBatch(ctx context.Context, batchID uuid.UUID) ([]*model.Servicio, error)
	DeleteDraft(ctx context.Context, id uint) error
}

// servicioRepository implements ServicioRepository
type servicioRepository struct {
	db *gorm.DB
}

// NewServicioRepository creates a new service record repository
func NewServicioRepository(db *gorm.DB) ServicioRepository {
	return &servicioRepository{db: db}
}

// Create creates a new service record
func (r *servicioRepository) Create(ctx context.Context, servicio *model.Servicio) (*model.Servicio, error) {
	if err := r.db.WithContext(ctx).Create(servicio).Error; err != nil {
		return nil, err
	}
	return servicio, nil
}

// Update rewrites the full aggregate including its points, line items and
// discounts. Transitions rely on this being all-or-nothing.
func (r *servicioRepository) Update(ctx context.Context, servicio *model.Servicio) (*model.Servicio, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(servicio).Select("*").Omit("id", "created_at").Updates(servicio).Error; err != nil {
			return err
		}
		if err := tx.Where("servicio_id = ?", servicio.ID).Delete(&model.Punto{}).Error; err != nil {
			return err
		}
		for i := range servicio.Puntos {
			servicio.Puntos[i].ID = 0
			servicio.Puntos[i].ServicioID = servicio.ID
		}
		if len(servicio.Puntos) > 0 {
			if err := tx.Create(&servicio.Puntos).Error; err != nil {
				return err
			}
		}
		for i := range servicio.Valores {
			if servicio.Valores[i].ID == 0 {
				servicio.Valores[i].ServicioID = servicio.ID
				if err := tx.Create(&servicio.Valores[i]).Error; err != nil {
					return err
				}
			}
		}
		for i := range servicio.Descuentos {
			if servicio.Descuentos[i].ID == 0 {
				servicio.Descuentos[i].ServicioID = servicio.ID
				if err := tx.Create(&servicio.Descuentos[i]).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return servicio, nil
}

// GetByID gets a service record with its full aggregate by ID
func (r *servicioRepository) GetByID(ctx context.Context, id uint) (*model.Servicio, error) {
	var servicio model.Servicio
	err := r.db.WithContext(ctx).
		Preload("Puntos", func(db *gorm.DB) *gorm.DB {
			return db.Order("orden ASC")
		}).
		Preload("Valores").
		Preload("Descuentos").
		Where("id = ?", id).
		First(&servicio).Error
	if err != nil {
		if db.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &servicio, nil
}

// List lists all service records, most recent first
func (r *servicioRepository) List(ctx context.Context) ([]*model.Servicio, error) {
	var servicios []*model.Servicio
	err := r.db.WithContext(ctx).
		Preload("Puntos", func(db *gorm.DB) *gorm.DB {
			return db.Order("orden ASC")
		}).
		Order("created_at DESC").
		Find(&servicios).Error
	if err != nil {
		return nil, err
	}
	return servicios, nil
}

// FindByEstado finds service records in the given status
func (r *servicioRepository) FindByEstado(ctx context.Context, estado model.EstadoServicio) ([]*model.Servicio, error) {
	var servicios []*model.Servicio
	err := r.db.WithContext(ctx).
		Preload("Puntos", func(db *gorm.DB) *gorm.DB {
			return db.Order("orden ASC")
		}).
		Where("estado = ?", estado).
		Order("created_at DESC").
		Find(&servicios).Error
	if err != nil {
		return nil, err
	}
	return servicios, nil
}

// FindByImportBatch finds service records belonging to an import batch
func (r *servicioRepository) FindByImportBatch(ctx context.Context, batchID uuid.UUID) ([]*model.Servicio, error) {
	var servicios []*model.Servicio
	err := r.db.WithContext(ctx).
		Where("import_batch_id = ?", batchID).
		Find(&servicios).Error
	if err != nil {
		return nil, err
	}
	return servicios, nil
}

// DeleteDraft deletes a service record that is still a draft, together
// with its points, line items and discounts, in one transaction. Sent
// records are append-only history and are never deleted.
func (r *servicioRepository) DeleteDraft(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND estado = ?", id, model.EstadoPendiente).
			Delete(&model.Servicio{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		for _, child := range []interface{}{&model.Punto{}, &model.Valor{}, &model.Descuento{}} {
			if err := tx.Where("servicio_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
