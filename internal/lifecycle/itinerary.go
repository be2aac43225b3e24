package lifecycle

import (
	"time"

	"example.com/logistics/services/odv/internal/model"
)

// LateThreshold is how far past its ETA a point may arrive before it
// requires a recorded reason
const LateThreshold = 15 * time.Minute

// ValidateSequentialTiming checks that completed points respect the route
// order: each point's arrival may not precede the previous point's departure
// (the service's requested date for the first point), and its departure may
// not precede its own arrival. Incomplete points are not checked; their
// floor carries over to the next completed point.
func ValidateSequentialTiming(puntos []model.Punto, fechaSolicitud time.Time) bool {
	piso := fechaSolicitud
	for _, p := range puntos {
		if !p.Completo() {
			continue
		}
		if p.Llegada.Before(piso) {
			return false
		}
		if p.Salida.Before(*p.Llegada) {
			return false
		}
		piso = *p.Salida
	}
	return true
}

// IsLate reports whether the point arrived more than LateThreshold past
// its scheduled ETA. Points without an ETA or an actual arrival are never late.
func IsLate(p model.Punto) bool {
	if p.Llegada == nil || p.ETA == nil {
		return false
	}
	return p.Llegada.Sub(*p.ETA) > LateThreshold
}

// ComputePendingReturn derives the pending-return flag: true iff every
// non-return point is complete and at least one return point (drop-empty or
// drop-loaded) is not. With no return points in the itinerary there is
// nothing to return and the result is always false.
func ComputePendingReturn(puntos []model.Punto) bool {
	devolucionPendiente := false
	for _, p := range puntos {
		if p.Accion.EsDevolucion() {
			if !p.Completo() {
				devolucionPendiente = true
			}
			continue
		}
		if !p.Completo() {
			return false
		}
	}
	return devolucionPendiente
}

// CanAdvanceToReview decides whether the itinerary allows the service to
// move to review. A nil return does not imply the pending-return flag is
// false; a service may advance while still owing a container return, which
// callers surface as a warning requiring operator confirmation.
func CanAdvanceToReview(puntos []model.Punto, fechaSolicitud time.Time) error {
	var incompletos []int
	for i, p := range puntos {
		if !p.Accion.EsDevolucion() && !p.Completo() {
			incompletos = append(incompletos, i)
		}
	}
	if len(incompletos) > 0 {
		return newIncompletePoints(incompletos)
	}

	entregado := false
	for _, p := range puntos {
		if p.Accion.EsEntrega() && p.Completo() {
			entregado = true
			break
		}
	}
	if !entregado {
		return newNoCargoDelivered()
	}

	piso := fechaSolicitud
	for i, p := range puntos {
		if !p.Completo() {
			continue
		}
		if p.Llegada.Before(piso) || p.Salida.Before(*p.Llegada) {
			return newTimingViolation(i)
		}
		piso = *p.Salida
	}

	for i, p := range puntos {
		if p.Completo() && IsLate(p) && p.RazonDeTardia == "" {
			return newMissingLateReason(i)
		}
	}

	return nil
}
