package lifecycle

import (
	"example.com/logistics/services/odv/internal/model"
)

// RazonFalsoFlete is the reason recorded on discounts appended by MarkFalsoFlete
const RazonFalsoFlete = "Falso Flete"

// AssignInput carries the resource selection for AssignResources.
// MovilTipo is the vehicle type resolved from the fleet catalog; a
// "Tracto" requires a trailer.
type AssignInput struct {
	Empresa   string
	Chofer    string
	Movil     string
	MovilTipo string
	Rampla    uint
}

// Submit sends a draft to operations. The new status depends on whether
// resources were already set on the draft: EnProceso with driver and
// vehicle, SinAsignar otherwise.
func Submit(s *model.Servicio) error {
	if s.Estado != model.EstadoPendiente {
		return newInvalidTransition("enviar", s.Estado)
	}
	if s.Chofer != "" && s.Movil != "" {
		s.Estado = model.EstadoEnProceso
	} else {
		s.Estado = model.EstadoSinAsignar
	}
	return nil
}

// AssignResources assigns company, driver and vehicle to an unassigned
// service and moves it to EnProceso. A tractor-type vehicle additionally
// requires a trailer.
func AssignResources(s *model.Servicio, in AssignInput) error {
	if s.Estado != model.EstadoSinAsignar {
		return newInvalidTransition("asignar", s.Estado)
	}

	var faltantes []string
	if in.Empresa == "" {
		faltantes = append(faltantes, "empresa")
	}
	if in.Chofer == "" {
		faltantes = append(faltantes, "chofer")
	}
	if in.Movil == "" {
		faltantes = append(faltantes, "movil")
	}
	if in.MovilTipo == model.MovilTipoTracto && in.Rampla == 0 {
		faltantes = append(faltantes, "rampla")
	}
	if len(faltantes) > 0 {
		return newIncompleteAssignment(faltantes)
	}

	s.Empresa = in.Empresa
	s.Chofer = in.Chofer
	s.Movil = in.Movil
	s.Rampla = in.Rampla
	s.Estado = model.EstadoEnProceso
	return nil
}

// MarkFalsoFlete diverts a service to the false-freight outcome, appending
// a service-level discount. Existing discount entries are preserved.
func MarkFalsoFlete(s *model.Servicio, porcentaje float64) error {
	if s.Estado != model.EstadoEnProceso && s.Estado != model.EstadoSinAsignar {
		return newInvalidTransition("falso flete", s.Estado)
	}
	if porcentaje < 0 || porcentaje > 100 {
		return newDiscountOutOfRange(porcentaje)
	}

	s.Descuentos = append(s.Descuentos, model.Descuento{
		ServicioID:          s.ID,
		PorcentajeDescuento: porcentaje,
		Razon:               RazonFalsoFlete,
	})
	s.Estado = model.EstadoFalsoFlete
	return nil
}

// AdvanceToReview moves a service in progress to PorValidar once its
// itinerary satisfies the review rules, recomputing the pending-return
// flag as part of the transition. Callers must obtain operator
// confirmation before persisting when the flag comes back true.
func AdvanceToReview(s *model.Servicio) error {
	if s.Estado != model.EstadoEnProceso {
		return newInvalidTransition("validar", s.Estado)
	}
	if err := CanAdvanceToReview(s.Puntos, s.FechaSolicitud); err != nil {
		return err
	}
	s.PendienteDevolucion = ComputePendingReturn(s.Puntos)
	s.Estado = model.EstadoPorValidar
	return nil
}

// Finalize closes the review stage. The destination is an external
// decision; only Completado and PorFacturar are reachable from PorValidar.
func Finalize(s *model.Servicio, destino model.EstadoServicio) error {
	if s.Estado != model.EstadoPorValidar {
		return newInvalidTransition("finalizar", s.Estado)
	}
	if destino != model.EstadoCompletado && destino != model.EstadoPorFacturar {
		return newInvalidTransition("finalizar", destino)
	}
	s.Estado = destino
	return nil
}

// RecomputeDerived refreshes the derived pending-return flag from the
// current itinerary. Every save that touches Puntos goes through here;
// the flag is never accepted as caller input.
func RecomputeDerived(s *model.Servicio) {
	s.PendienteDevolucion = ComputePendingReturn(s.Puntos)
}
