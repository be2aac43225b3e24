package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"example.com/logistics/services/odv/internal/lifecycle"
	"example.com/logistics/services/odv/internal/metrics"
	"example.com/logistics/services/odv/internal/model"
	"example.com/logistics/services/odv/internal/repository"
)

// ErrBatchInvalido means the import batch id could not be parsed
var ErrBatchInvalido = errors.New("identificador de lote de importación inválido")

// ImportBatchRequest defines a batch of imported service drafts. The
// spreadsheet mapping happens upstream; the service only receives rows
// already shaped for creation.
type ImportBatchRequest struct {
	Source  string         `json:"source" validate:"required"`
	Records []ImportRecord `json:"records" validate:"required,min=1,dive"`
}

// ImportRecord is one spreadsheet row of an import batch. Rows carry no
// creator of their own; every record is attributed to the batch source.
type ImportRecord struct {
	Form   model.Formulario `json:"form"`
	Puntos []PuntoInput     `json:"puntos" validate:"dive"`
	Chofer string           `json:"chofer"`
	Movil  string           `json:"movil"`
}

// ImportBatchResult reports the outcome of an import batch
type ImportBatchResult struct {
	BatchID   uuid.UUID `json:"batch_id"`
	Imported  int       `json:"imported"`
	Servicios []uint    `json:"servicios"`
}

// CreateImportBatch creates one draft per record, all stamped with the
// same batch id. Imported records always enter as Pendiente through the
// normal creation path; the importer cannot set a status directly.
func (s *servicioService) CreateImportBatch(ctx context.Context, req *ImportBatchRequest) (*ImportBatchResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	batchID := uuid.New()
	startTime := time.Now()
	collector := metrics.GetMetricsCollector()

	result := &ImportBatchResult{BatchID: batchID}
	for i, record := range req.Records {
		servicio := &model.Servicio{
			Formulario:        record.Form,
			Estado:            model.EstadoPendiente,
			EstadoSeguimiento: model.SeguimientoSinIniciar,
			Chofer:            record.Chofer,
			Movil:             record.Movil,
			CreatedBy:         req.Source,
			ImportBatchID:     &batchID,
		}
		for j, p := range record.Puntos {
			servicio.Puntos = append(servicio.Puntos, model.Punto{
				Orden:   j,
				IDLugar: p.IDLugar,
				Accion:  p.Accion,
				ETA:     p.ETA,
				Naviera: p.Naviera,
			})
		}
		lifecycle.RecomputeDerived(servicio)

		servicio, err := s.repo.Create(ctx, servicio)
		if err != nil {
			// The rows already imported stay; the caller may roll the batch back
			return result, fmt.Errorf("fila %d del lote %s: %w", i, batchID, err)
		}

		result.Imported++
		result.Servicios = append(result.Servicios, servicio.ID)
		s.afterSave(ctx, servicio)
	}

	collector.RecordTransition(metrics.TransitionTypeCreate, time.Since(startTime))
	logrus.WithFields(logrus.Fields{
		"batch_id": batchID,
		"imported": result.Imported,
		"source":   req.Source,
	}).Info("Import batch created")

	return result, nil
}

// RollbackImportBatch deletes the records of a batch that are still
// drafts. Records already sent to operations are kept; it returns how
// many drafts were removed.
func (s *servicioService) RollbackImportBatch(ctx context.Context, batchID string) (int, error) {
	id, err := uuid.Parse(batchID)
	if err != nil {
		return 0, ErrBatchInvalido
	}

	servicios, err := s.repo.FindByImportBatch(ctx, id)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, servicio := range servicios {
		if servicio.Estado != model.EstadoPendiente {
			continue
		}
		if err := s.repo.DeleteDraft(ctx, servicio.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return removed, err
		}
		if err := s.cache.DeleteServicio(ctx, servicio.ID); err != nil {
			logrus.WithError(err).Warn("Failed to evict servicio from cache")
		}
		removed++
	}

	logrus.WithFields(logrus.Fields{
		"batch_id": batchID,
		"removed":  removed,
	}).Info("Import batch rolled back")

	return removed, nil
}
