package model

// Display holds presentation metadata for a status badge. It is kept apart
// from the domain enums so transition logic never depends on labels or colors.
type Display struct {
	Etiqueta string `json:"etiqueta"`
	Color    string `json:"color"`
}

var estadoDisplay = map[EstadoServicio]Display{
	EstadoPendiente:   {Etiqueta: "Pendiente", Color: "gray"},
	EstadoSinAsignar:  {Etiqueta: "Sin Asignar", Color: "yellow"},
	EstadoEnProceso:   {Etiqueta: "En Proceso", Color: "blue"},
	EstadoFalsoFlete:  {Etiqueta: "Falso Flete", Color: "red"},
	EstadoPorValidar:  {Etiqueta: "Por validar", Color: "orange"},
	EstadoPorFacturar: {Etiqueta: "Por facturar", Color: "purple"},
	EstadoCompletado:  {Etiqueta: "Completado", Color: "green"},
	EstadoEnRevision:  {Etiqueta: "En revisión", Color: "pink"},
}

var seguimientoDisplay = map[EstadoSeguimiento]Display{
	SeguimientoSinIniciar: {Etiqueta: "Sin iniciar", Color: "gray"},
	SeguimientoProgramado: {Etiqueta: "Programado", Color: "teal"},
	SeguimientoEnCamino:   {Etiqueta: "En camino", Color: "blue"},
	SeguimientoEnPunto:    {Etiqueta: "En punto", Color: "indigo"},
	SeguimientoEnRetorno:  {Etiqueta: "En retorno", Color: "cyan"},
	SeguimientoFinalizado: {Etiqueta: "Finalizado", Color: "green"},
}

// Display returns the badge metadata for the status
func (e EstadoServicio) Display() Display {
	if d, ok := estadoDisplay[e]; ok {
		return d
	}
	return Display{Etiqueta: "unknown", Color: "gray"}
}

// Display returns the badge metadata for the tracking status
func (e EstadoSeguimiento) Display() Display {
	if d, ok := seguimientoDisplay[e]; ok {
		return d
	}
	return Display{Etiqueta: "unknown", Color: "gray"}
}
