package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Formulario holds the commercial and logistics attributes of a service,
// editable until the record reaches a terminal status
type Formulario struct {
	Cliente            string          `json:"cliente"`
	TipoOperacion      uint            `json:"tipo_operacion"`
	Origen             uint            `json:"origen"`
	Destino            uint            `json:"destino"`
	Pais               uint            `json:"pais"`
	FechaSolicitud     time.Time       `json:"fecha_solicitud"`
	TipoContenedor     uint            `json:"tipo_contenedor"`
	Peso               float64         `json:"peso"`
	ValorDeclarado     decimal.Decimal `json:"valor_declarado" gorm:"type:decimal(14,2)"`
	Temperatura        *float64        `json:"temperatura"`
	GuiaDespacho       string          `json:"guia_despacho"`
	Sello              string          `json:"sello"`
	Nave               string          `json:"nave"`
	Observaciones      string          `json:"observaciones"`
	CargaPeligrosa     bool            `json:"carga_peligrosa"`
	CategoriaPeligrosa string          `json:"categoria_peligrosa"`
	Folio              string          `json:"folio"`
	FechaFolio         *time.Time      `json:"fecha_folio"`
	ETA                *time.Time      `json:"eta"`
	Ejecutivo          string          `json:"ejecutivo"`
}

// Servicio is the central service record (ODV) tracked through the
// operations workflow
type Servicio struct {
	ID                  uint              `json:"id" gorm:"primaryKey;autoIncrement"`
	Formulario          `json:"form" gorm:"embedded"`
	Estado              EstadoServicio    `json:"estado"`
	EstadoSeguimiento   EstadoSeguimiento `json:"estado_seguimiento"`
	PendienteDevolucion bool              `json:"pendiente_devolucion"`
	Puntos              []Punto           `json:"puntos" gorm:"foreignKey:ServicioID"`
	Valores             []Valor           `json:"valores" gorm:"foreignKey:ServicioID"`
	Descuentos          []Descuento       `json:"descuentos" gorm:"foreignKey:ServicioID"`
	Empresa             string            `json:"empresa"`
	Chofer              string            `json:"chofer"`
	Movil               string            `json:"movil"`
	Rampla              uint              `json:"rampla"`
	CreatedBy           string            `json:"created_by"`
	ImportBatchID       *uuid.UUID        `json:"import_batch_id" gorm:"type:uuid;index"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// Punto represents one stop in a service's physical route
type Punto struct {
	ID            uint       `json:"-" gorm:"primaryKey;autoIncrement"`
	ServicioID    uint       `json:"-" gorm:"index"`
	Orden         int        `json:"orden"`
	IDLugar       uint       `json:"id_lugar"`
	Accion        Accion     `json:"accion"`
	Estado        int        `json:"estado"`
	ETA           *time.Time `json:"eta"`
	Llegada       *time.Time `json:"llegada"`
	Salida        *time.Time `json:"salida"`
	Observacion   string     `json:"observacion"`
	RazonDeTardia string     `json:"razon_de_tardia"`
	Naviera       *uint      `json:"naviera"`
}

// Completo reports whether the point has both actual arrival and departure
func (p Punto) Completo() bool {
	return p.Llegada != nil && p.Salida != nil
}

// TipoValor defines whether a line item is a cost or a sale
type TipoValor string

const (
	// TipoValorCosto represents a cost line item
	TipoValorCosto TipoValor = "costo"
	// TipoValorVenta represents a sale line item
	TipoValorVenta TipoValor = "venta"
)

// Valor represents an invoice line item of a service
type Valor struct {
	ID            uint            `json:"-" gorm:"primaryKey;autoIncrement"`
	ServicioID    uint            `json:"-" gorm:"index"`
	Concepto      string          `json:"concepto"`
	Costo         decimal.Decimal `json:"costo" gorm:"type:decimal(14,2)"`
	Venta         decimal.Decimal `json:"venta" gorm:"type:decimal(14,2)"`
	FechaEmision  time.Time       `json:"fecha_emision"`
	Tipo          TipoValor       `json:"tipo"`
	DescuentoNota string          `json:"descuento_nota"`
}

// Descuento represents a service-level discount entry. Entries are
// append-only: marking a service as Falso Flete adds one, existing
// entries are never rewritten.
type Descuento struct {
	ID                  uint    `json:"-" gorm:"primaryKey;autoIncrement"`
	ServicioID          uint    `json:"-" gorm:"index"`
	PorcentajeDescuento float64 `json:"porcentaje_descuento"`
	Razon               string  `json:"razon"`
}
