package lifecycle

import (
	"fmt"

	"example.com/logistics/services/odv/internal/model"
)

// Code classifies a rejected lifecycle operation
type Code string

const (
	// CodeIncompleteAssignment means the resource assignment is missing fields
	CodeIncompleteAssignment Code = "ASIGNACION_INCOMPLETA"
	// CodeIncompletePoints means non-return itinerary points lack arrival or departure
	CodeIncompletePoints Code = "PUNTOS_INCOMPLETOS"
	// CodeNoCargoDelivered means no delivery action has been completed
	CodeNoCargoDelivered Code = "SIN_ENTREGA"
	// CodeTimingViolation means a completed point breaks the sequential timing rule
	CodeTimingViolation Code = "ORDEN_TEMPORAL"
	// CodeMissingLateReason means a late point has no recorded reason
	CodeMissingLateReason Code = "FALTA_RAZON_TARDIA"
	// CodeInvalidTransition means the operation is not legal from the current status
	CodeInvalidTransition Code = "TRANSICION_INVALIDA"
	// CodeDiscountOutOfRange means the discount percentage is outside 0-100
	CodeDiscountOutOfRange Code = "DESCUENTO_FUERA_DE_RANGO"
)

// Error is a typed precondition failure. The stored record is never
// modified when one is returned.
type Error struct {
	Code    Code
	Mensaje string
	// Indices carries the offending point indices for point-level failures
	Indices []int
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Mensaje
}

func newIncompleteAssignment(faltantes []string) *Error {
	return &Error{
		Code:    CodeIncompleteAssignment,
		Mensaje: fmt.Sprintf("asignación incompleta, falta: %v", faltantes),
	}
}

func newIncompletePoints(indices []int) *Error {
	return &Error{
		Code:    CodeIncompletePoints,
		Mensaje: fmt.Sprintf("puntos sin llegada o salida: %v", indices),
		Indices: indices,
	}
}

func newNoCargoDelivered() *Error {
	return &Error{
		Code:    CodeNoCargoDelivered,
		Mensaje: "ningún punto de entrega ha sido completado",
	}
}

func newTimingViolation(index int) *Error {
	return &Error{
		Code:    CodeTimingViolation,
		Mensaje: fmt.Sprintf("el punto %d viola el orden temporal del itinerario", index),
		Indices: []int{index},
	}
}

func newMissingLateReason(index int) *Error {
	return &Error{
		Code:    CodeMissingLateReason,
		Mensaje: fmt.Sprintf("el punto %d llegó tarde y no registra razón de tardía", index),
		Indices: []int{index},
	}
}

func newInvalidTransition(op string, desde model.EstadoServicio) *Error {
	return &Error{
		Code:    CodeInvalidTransition,
		Mensaje: fmt.Sprintf("%s no es válido desde el estado %q", op, desde.String()),
	}
}

func newDiscountOutOfRange(porcentaje float64) *Error {
	return &Error{
		Code:    CodeDiscountOutOfRange,
		Mensaje: fmt.Sprintf("porcentaje de descuento %.2f fuera del rango 0-100", porcentaje),
	}
}
