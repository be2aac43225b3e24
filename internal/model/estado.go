package model

// EstadoServicio defines the workflow status of a service
type EstadoServicio uint

const (
	// EstadoPendiente represents a draft not yet sent to operations
	EstadoPendiente EstadoServicio = iota
	// EstadoSinAsignar represents a sent service awaiting resources
	EstadoSinAsignar
	// EstadoEnProceso represents a service with assigned resources underway
	EstadoEnProceso
	// EstadoFalsoFlete represents a cancelled/no-show service billed with a discount
	EstadoFalsoFlete
	// EstadoPorValidar represents a service whose itinerary is under review
	EstadoPorValidar
	// EstadoPorFacturar represents a validated service awaiting billing
	EstadoPorFacturar
	// EstadoCompletado represents a fully closed service
	EstadoCompletado
	// EstadoEnRevision represents a service sent back for accounting review
	EstadoEnRevision
)

// EstadoSeguimiento defines the dispatch-board tracking label of a service.
// It is user-selected from this fixed vocabulary and tracked independently
// of EstadoServicio.
type EstadoSeguimiento uint

const (
	// SeguimientoSinIniciar represents a service not yet started
	SeguimientoSinIniciar EstadoSeguimiento = iota
	// SeguimientoProgramado represents a service assigned and scheduled
	SeguimientoProgramado
	// SeguimientoEnCamino represents a vehicle travelling to a point
	SeguimientoEnCamino
	// SeguimientoEnPunto represents a vehicle working at a point
	SeguimientoEnPunto
	// SeguimientoEnRetorno represents a vehicle on its return leg
	SeguimientoEnRetorno
	// SeguimientoFinalizado represents a finished route
	SeguimientoFinalizado
)

// Terminal reports whether the status is a sink with no outgoing transitions
func (e EstadoServicio) Terminal() bool {
	return e == EstadoCompletado || e == EstadoFalsoFlete
}

// String returns a string representation of EstadoServicio
func (e EstadoServicio) String() string {
	estadoMap := map[EstadoServicio]string{
		EstadoPendiente:   "Pendiente",
		EstadoSinAsignar:  "Sin Asignar",
		EstadoEnProceso:   "En Proceso",
		EstadoFalsoFlete:  "Falso Flete",
		EstadoPorValidar:  "Por validar",
		EstadoPorFacturar: "Por facturar",
		EstadoCompletado:  "Completado",
		EstadoEnRevision:  "En revisión",
	}

	if str, ok := estadoMap[e]; ok {
		return str
	}
	return "unknown"
}

// EstadoFromString converts a string to an EstadoServicio
func EstadoFromString(estado string) (EstadoServicio, bool) {
	switch estado {
	case "Pendiente":
		return EstadoPendiente, true
	case "Sin Asignar":
		return EstadoSinAsignar, true
	case "En Proceso":
		return EstadoEnProceso, true
	case "Falso Flete":
		return EstadoFalsoFlete, true
	case "Por validar":
		return EstadoPorValidar, true
	case "Por facturar":
		return EstadoPorFacturar, true
	case "Completado":
		return EstadoCompletado, true
	case "En revisión":
		return EstadoEnRevision, true
	default:
		return EstadoPendiente, false
	}
}

// String returns a string representation of EstadoSeguimiento
func (e EstadoSeguimiento) String() string {
	seguimientoMap := map[EstadoSeguimiento]string{
		SeguimientoSinIniciar: "Sin iniciar",
		SeguimientoProgramado: "Programado",
		SeguimientoEnCamino:   "En camino",
		SeguimientoEnPunto:    "En punto",
		SeguimientoEnRetorno:  "En retorno",
		SeguimientoFinalizado: "Finalizado",
	}

	if str, ok := seguimientoMap[e]; ok {
		return str
	}
	return "unknown"
}

// SeguimientoFromString converts a string to an EstadoSeguimiento
func SeguimientoFromString(estado string) (EstadoSeguimiento, bool) {
	switch estado {
	case "Sin iniciar":
		return SeguimientoSinIniciar, true
	case "Programado":
		return SeguimientoProgramado, true
	case "En camino":
		return SeguimientoEnCamino, true
	case "En punto":
		return SeguimientoEnPunto, true
	case "En retorno":
		return SeguimientoEnRetorno, true
	case "Finalizado":
		return SeguimientoFinalizado, true
	default:
		return SeguimientoSinIniciar, false
	}
}

// Accion defines the action performed at an itinerary point
type Accion uint

const (
	// AccionRetiroVacio retrieves an empty container
	AccionRetiroVacio Accion = 1
	// AccionRetiroCargado retrieves a loaded container
	AccionRetiroCargado Accion = 2
	// AccionEntregaVacio drops an empty container (return action)
	AccionEntregaVacio Accion = 3
	// AccionEntregaCargado drops a loaded container (return action)
	AccionEntregaCargado Accion = 4
	// AccionAlmacenajeContenido stores container contents
	AccionAlmacenajeContenido Accion = 5
	// AccionLlenado fills a container
	AccionLlenado Accion = 6
	// AccionVaciado empties a container
	AccionVaciado Accion = 7
	// AccionPorteo carries cargo between points
	AccionPorteo Accion = 8
	// AccionAlmacenaje stores a container
	AccionAlmacenaje Accion = 9
	// AccionResguardo keeps a container in safekeeping
	AccionResguardo Accion = 10
	// AccionRetiroCarga retrieves loose cargo
	AccionRetiroCarga Accion = 11
	// AccionEntregaCarga drops loose cargo
	AccionEntregaCarga Accion = 12
)

// EsDevolucion reports whether the action returns a container
func (a Accion) EsDevolucion() bool {
	return a == AccionEntregaVacio || a == AccionEntregaCargado
}

// EsEntrega reports whether the action delivers cargo
func (a Accion) EsEntrega() bool {
	return a == AccionEntregaCargado || a == AccionVaciado
}
