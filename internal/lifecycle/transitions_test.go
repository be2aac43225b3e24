package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/logistics/services/odv/internal/model"
)

func requireTransitionRejected(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var lcErr *Error
	require.ErrorAs(t, err, &lcErr)
	require.Equal(t, CodeInvalidTransition, lcErr.Code)
}

func TestSubmit(t *testing.T) {
	t.Run("draft with resources goes to EnProceso", func(t *testing.T) {
		s := &model.Servicio{Estado: model.EstadoPendiente, Chofer: "Juan Pérez", Movil: "ABCD12"}
		require.NoError(t, Submit(s))
		require.Equal(t, model.EstadoEnProceso, s.Estado)
	})

	t.Run("draft without resources goes to SinAsignar", func(t *testing.T) {
		s := &model.Servicio{Estado: model.EstadoPendiente}
		require.NoError(t, Submit(s))
		require.Equal(t, model.EstadoSinAsignar, s.Estado)
	})

	t.Run("driver alone is not enough", func(t *testing.T) {
		s := &model.Servicio{Estado: model.EstadoPendiente, Chofer: "Juan Pérez"}
		require.NoError(t, Submit(s))
		require.Equal(t, model.EstadoSinAsignar, s.Estado)
	})

	t.Run("rejected outside Pendiente", func(t *testing.T) {
		for _, estado := range []model.EstadoServicio{
			model.EstadoSinAsignar,
			model.EstadoEnProceso,
			model.EstadoFalsoFlete,
			model.EstadoPorValidar,
			model.EstadoCompletado,
		} {
			s := &model.Servicio{Estado: estado}
			requireTransitionRejected(t, Submit(s))
			require.Equal(t, estado, s.Estado)
		}
	})
}

func TestAssignResources(t *testing.T) {
	full := AssignInput{
		Empresa:   "Transportes Andes",
		Chofer:    "Juan Pérez",
		Movil:     "ABCD12",
		MovilTipo: model.MovilTipoTracto,
		Rampla:    7,
	}

	t.Run("complete assignment moves to EnProceso", func(t *testing.T) {
		s := &model.Servicio{Estado: model.EstadoSinAsignar}
		require.NoError(t, AssignResources(s, full))
		require.Equal(t, model.EstadoEnProceso, s.Estado)
		require.Equal(t, "Transportes Andes", s.Empresa)
		require.Equal(t, "Juan Pérez", s.Chofer)
		require.Equal(t, "ABCD12", s.Movil)
		require.Equal(t, uint(7), s.Rampla)
	})

	t.Run("tractor without trailer is incomplete", func(t *testing.T) {
		in := full
		in.Rampla = 0
		s := &model.Servicio{Estado: model.EstadoSinAsignar}
		err := AssignResources(s, in)
		require.Error(t, err)
		var lcErr *Error
		require.ErrorAs(t, err, &lcErr)
		require.Equal(t, CodeIncompleteAssignment, lcErr.Code)
		require.Equal(t, model.EstadoSinAsignar, s.Estado)
		require.Empty(t, s.Chofer)
	})

	t.Run("non-tractor vehicle needs no trailer", func(t *testing.T) {
		in := full
		in.MovilTipo = "Camión"
		in.Rampla = 0
		s := &model.Servicio{Estado: model.EstadoSinAsignar}
		require.NoError(t, AssignResources(s, in))
		require.Equal(t, model.EstadoEnProceso, s.Estado)
	})

	t.Run("missing driver is incomplete", func(t *testing.T) {
		in := full
		in.Chofer = ""
		s := &model.Servicio{Estado: model.EstadoSinAsignar}
		err := AssignResources(s, in)
		var lcErr *Error
		require.ErrorAs(t, err, &lcErr)
		require.Equal(t, CodeIncompleteAssignment, lcErr.Code)
	})

	t.Run("rejected outside SinAsignar", func(t *testing.T) {
		s := &model.Servicio{Estado: model.EstadoEnProceso}
		requireTransitionRejected(t, AssignResources(s, full))
	})
}

func TestMarkFalsoFlete(t *testing.T) {
	t.Run("appends discount and moves to FalsoFlete", func(t *testing.T) {
		s := &model.Servicio{
			ID:     42,
			Estado: model.EstadoEnProceso,
			Descuentos: []model.Descuento{
				{ServicioID: 42, PorcentajeDescuento: 10, Razon: "Acuerdo comercial"},
			},
		}
		require.NoError(t, MarkFalsoFlete(s, 50))
		require.Equal(t, model.EstadoFalsoFlete, s.Estado)
		require.Len(t, s.Descuentos, 2)
		require.Equal(t, "Acuerdo comercial", s.Descuentos[0].Razon)
		require.Equal(t, RazonFalsoFlete, s.Descuentos[1].Razon)
		require.Equal(t, float64(50), s.Descuentos[1].PorcentajeDescuento)
	})

	t.Run("allowed from SinAsignar", func(t *testing.T) {
		s := &model.Servicio{Estado: model.EstadoSinAsignar}
		require.NoError(t, MarkFalsoFlete(s, 0))
		require.Equal(t, model.EstadoFalsoFlete, s.Estado)
	})

	t.Run("percentage bounds are inclusive", func(t *testing.T) {
		s := &model.Servicio{Estado: model.EstadoEnProceso}
		require.NoError(t, MarkFalsoFlete(s, 100))
	})

	t.Run("percentage out of range", func(t *testing.T) {
		for _, pct := range []float64{-0.5, 100.5} {
			s := &model.Servicio{Estado: model.EstadoEnProceso}
			err := MarkFalsoFlete(s, pct)
			require.Error(t, err)
			var lcErr *Error
			require.ErrorAs(t, err, &lcErr)
			require.Equal(t, CodeDiscountOutOfRange, lcErr.Code)
			require.Equal(t, model.EstadoEnProceso, s.Estado)
			require.Empty(t, s.Descuentos)
		}
	})

	t.Run("rejected from Pendiente", func(t *testing.T) {
		s := &model.Servicio{Estado: model.EstadoPendiente}
		requireTransitionRejected(t, MarkFalsoFlete(s, 50))
	})
}

func TestAdvanceToReview(t *testing.T) {
	solicitud := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	validService := func() *model.Servicio {
		return &model.Servicio{
			Formulario: model.Formulario{FechaSolicitud: solicitud},
			Estado:     model.EstadoEnProceso,
			Puntos: []model.Punto{
				completedPunto(model.AccionRetiroVacio, 1*time.Hour, 2*time.Hour),
				completedPunto(model.AccionVaciado, 3*time.Hour, 4*time.Hour),
			},
		}
	}

	t.Run("valid itinerary moves to PorValidar", func(t *testing.T) {
		s := validService()
		require.NoError(t, AdvanceToReview(s))
		require.Equal(t, model.EstadoPorValidar, s.Estado)
		require.False(t, s.PendienteDevolucion)
	})

	t.Run("pending return is recomputed during the transition", func(t *testing.T) {
		s := validService()
		s.Puntos = append(s.Puntos, model.Punto{Accion: model.AccionEntregaVacio})
		require.NoError(t, AdvanceToReview(s))
		require.Equal(t, model.EstadoPorValidar, s.Estado)
		require.True(t, s.PendienteDevolucion)
	})

	t.Run("itinerary failure leaves status untouched", func(t *testing.T) {
		s := validService()
		s.Puntos[1].Salida = nil
		err := AdvanceToReview(s)
		require.Error(t, err)
		require.Equal(t, model.EstadoEnProceso, s.Estado)
	})

	t.Run("rejected outside EnProceso", func(t *testing.T) {
		s := validService()
		s.Estado = model.EstadoPorValidar
		requireTransitionRejected(t, AdvanceToReview(s))
	})
}

func TestFinalize(t *testing.T) {
	t.Run("to Completado", func(t *testing.T) {
		s := &model.Servicio{Estado: model.EstadoPorValidar}
		require.NoError(t, Finalize(s, model.EstadoCompletado))
		require.Equal(t, model.EstadoCompletado, s.Estado)
	})

	t.Run("to PorFacturar", func(t *testing.T) {
		s := &model.Servicio{Estado: model.EstadoPorValidar}
		require.NoError(t, Finalize(s, model.EstadoPorFacturar))
		require.Equal(t, model.EstadoPorFacturar, s.Estado)
	})

	t.Run("other destinations rejected", func(t *testing.T) {
		for _, destino := range []model.EstadoServicio{
			model.EstadoPendiente,
			model.EstadoEnProceso,
			model.EstadoFalsoFlete,
			model.EstadoEnRevision,
		} {
			s := &model.Servicio{Estado: model.EstadoPorValidar}
			requireTransitionRejected(t, Finalize(s, destino))
			require.Equal(t, model.EstadoPorValidar, s.Estado)
		}
	})

	t.Run("rejected outside PorValidar", func(t *testing.T) {
		s := &model.Servicio{Estado: model.EstadoCompletado}
		requireTransitionRejected(t, Finalize(s, model.EstadoCompletado))
	})
}

func TestRecomputeDerived(t *testing.T) {
	s := &model.Servicio{
		PendienteDevolucion: true,
		Puntos: []model.Punto{
			completedPunto(model.AccionVaciado, 1*time.Hour, 2*time.Hour),
			completedPunto(model.AccionEntregaVacio, 3*time.Hour, 4*time.Hour),
		},
	}
	RecomputeDerived(s)
	require.False(t, s.PendienteDevolucion)

	s.Puntos[1].Salida = nil
	RecomputeDerived(s)
	require.True(t, s.PendienteDevolucion)
}
