package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"example.com/logistics/services/odv/internal/model"
)

func importRecord() ImportRecord {
	return ImportRecord{
		Form: validForm(),
		Puntos: []PuntoInput{
			{IDLugar: 1, Accion: model.AccionRetiroVacio},
			{IDLugar: 5, Accion: model.AccionVaciado},
		},
	}
}

func TestCreateImportBatch(t *testing.T) {
	f := newFixture()

	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Servicio")).
		Return(&model.Servicio{ID: 1}, nil).Once()
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Servicio")).
		Return(&model.Servicio{ID: 2}, nil).Once()

	result, err := f.svc.CreateImportBatch(context.Background(), &ImportBatchRequest{
		Source:  "planilla-marzo.xlsx",
		Records: []ImportRecord{importRecord(), importRecord()},
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.Imported)
	require.Equal(t, []uint{1, 2}, result.Servicios)

	// Every row entered as a draft stamped with the same batch id and
	// attributed to the batch source; rows name no creator of their own
	for _, call := range f.repo.Calls {
		created := call.Arguments.Get(1).(*model.Servicio)
		require.Equal(t, model.EstadoPendiente, created.Estado)
		require.Equal(t, "planilla-marzo.xlsx", created.CreatedBy)
		require.NotNil(t, created.ImportBatchID)
		require.Equal(t, result.BatchID, *created.ImportBatchID)
	}
}

func TestCreateImportBatchPartialFailure(t *testing.T) {
	f := newFixture()
	dbErr := errors.New("duplicate folio")

	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Servicio")).
		Return(&model.Servicio{ID: 1}, nil).Once()
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Servicio")).
		Return(nil, dbErr).Once()

	result, err := f.svc.CreateImportBatch(context.Background(), &ImportBatchRequest{
		Source:  "planilla-marzo.xlsx",
		Records: []ImportRecord{importRecord(), importRecord()},
	})
	require.ErrorIs(t, err, dbErr)
	// The rows imported before the failure are reported so the caller can
	// decide whether to roll back
	require.NotNil(t, result)
	require.Equal(t, 1, result.Imported)
	require.Equal(t, []uint{1}, result.Servicios)
}

func TestCreateImportBatchEmptyRejected(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateImportBatch(context.Background(), &ImportBatchRequest{Source: "x"})
	require.Error(t, err)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRollbackImportBatchSkipsSentRecords(t *testing.T) {
	f := newFixture()
	batchID := uuid.New()

	f.repo.On("FindByImportBatch", mock.Anything, batchID).Return([]*model.Servicio{
		{ID: 1, Estado: model.EstadoPendiente},
		{ID: 2, Estado: model.EstadoEnProceso},
		{ID: 3, Estado: model.EstadoPendiente},
	}, nil)
	f.repo.On("DeleteDraft", mock.Anything, uint(1)).Return(nil)
	f.repo.On("DeleteDraft", mock.Anything, uint(3)).Return(nil)

	removed, err := f.svc.RollbackImportBatch(context.Background(), batchID.String())
	require.NoError(t, err)
	require.Equal(t, 2, removed)
	f.repo.AssertNotCalled(t, "DeleteDraft", mock.Anything, uint(2))
}

func TestRollbackImportBatchInvalidID(t *testing.T) {
	f := newFixture()

	_, err := f.svc.RollbackImportBatch(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, ErrBatchInvalido)
	f.repo.AssertNotCalled(t, "FindByImportBatch", mock.Anything, mock.Anything)
}
