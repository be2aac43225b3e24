package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"example.com/logistics/services/odv/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every statement on the same in-memory
	// database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Servicio{},
		&model.Punto{},
		&model.Valor{},
		&model.Descuento{},
	))
	return db
}

func draftServicio() *model.Servicio {
	return &model.Servicio{
		Formulario: model.Formulario{
			Cliente:       "Naviera Austral",
			TipoOperacion: 1,
			Origen:        1,
			Destino:       5,
		},
		Estado:            model.EstadoPendiente,
		EstadoSeguimiento: model.SeguimientoSinIniciar,
		CreatedBy:         "operador",
		Puntos: []model.Punto{
			{Orden: 0, IDLugar: 1, Accion: model.AccionRetiroVacio},
			{Orden: 1, IDLugar: 5, Accion: model.AccionVaciado},
		},
		Valores: []model.Valor{
			{Concepto: "Flete troncal", Tipo: model.TipoValorVenta},
		},
		Descuentos: []model.Descuento{
			{PorcentajeDescuento: 10, Razon: "Acuerdo comercial"},
		},
	}
}

func TestCreateAssignsIncreasingIDs(t *testing.T) {
	repo := NewServicioRepository(newTestDB(t))
	ctx := context.Background()

	first, err := repo.Create(ctx, draftServicio())
	require.NoError(t, err)
	second, err := repo.Create(ctx, draftServicio())
	require.NoError(t, err)

	require.NotZero(t, first.ID)
	require.Greater(t, second.ID, first.ID)
}

func TestDeleteDraftRemovesAggregate(t *testing.T) {
	db := newTestDB(t)
	repo := NewServicioRepository(db)
	ctx := context.Background()

	servicio, err := repo.Create(ctx, draftServicio())
	require.NoError(t, err)

	require.NoError(t, repo.DeleteDraft(ctx, servicio.ID))

	_, err = repo.GetByID(ctx, servicio.ID)
	require.ErrorIs(t, err, ErrNotFound)

	// No orphaned child rows survive the delete
	for _, child := range []interface{}{&model.Punto{}, &model.Valor{}, &model.Descuento{}} {
		var count int64
		require.NoError(t, db.Model(child).Where("servicio_id = ?", servicio.ID).Count(&count).Error)
		require.Zero(t, count)
	}
}

func TestDeleteDraftKeepsSentRecords(t *testing.T) {
	db := newTestDB(t)
	repo := NewServicioRepository(db)
	ctx := context.Background()

	servicio, err := repo.Create(ctx, draftServicio())
	require.NoError(t, err)
	require.NoError(t, db.Model(&model.Servicio{}).
		Where("id = ?", servicio.ID).
		Update("estado", model.EstadoEnProceso).Error)

	require.ErrorIs(t, repo.DeleteDraft(ctx, servicio.ID), ErrNotFound)

	kept, err := repo.GetByID(ctx, servicio.ID)
	require.NoError(t, err)
	require.Equal(t, model.EstadoEnProceso, kept.Estado)
	require.Len(t, kept.Puntos, 2)
	require.Len(t, kept.Valores, 1)
}

func TestUpdateRewritesItinerary(t *testing.T) {
	repo := NewServicioRepository(newTestDB(t))
	ctx := context.Background()

	servicio, err := repo.Create(ctx, draftServicio())
	require.NoError(t, err)

	servicio.Estado = model.EstadoSinAsignar
	servicio.Puntos = []model.Punto{
		{Orden: 0, IDLugar: 2, Accion: model.AccionRetiroCargado},
		{Orden: 1, IDLugar: 7, Accion: model.AccionVaciado},
		{Orden: 2, IDLugar: 2, Accion: model.AccionEntregaVacio},
	}
	servicio.Descuentos = append(servicio.Descuentos, model.Descuento{
		PorcentajeDescuento: 50, Razon: "Falso flete",
	})

	_, err = repo.Update(ctx, servicio)
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, servicio.ID)
	require.NoError(t, err)
	require.Equal(t, model.EstadoSinAsignar, stored.Estado)
	require.Len(t, stored.Puntos, 3)
	require.Equal(t, uint(7), stored.Puntos[1].IDLugar)
	require.Len(t, stored.Descuentos, 2)
}
