package model

// Catalogo identifies one of the reference catalogs
type Catalogo string

const (
	// CatalogoTiposOperacion lists operation types
	CatalogoTiposOperacion Catalogo = "tipos-operacion"
	// CatalogoLugares lists locations
	CatalogoLugares Catalogo = "lugares"
	// CatalogoTiposContenedor lists container types
	CatalogoTiposContenedor Catalogo = "tipos-contenedor"
	// CatalogoAcciones lists itinerary point actions
	CatalogoAcciones Catalogo = "acciones"
	// CatalogoNavieras lists carriers
	CatalogoNavieras Catalogo = "navieras"
	// CatalogoPaises lists countries
	CatalogoPaises Catalogo = "paises"
)

// Valida reports whether the catalog name is one of the known catalogs
func (c Catalogo) Valida() bool {
	switch c {
	case CatalogoTiposOperacion, CatalogoLugares, CatalogoTiposContenedor,
		CatalogoAcciones, CatalogoNavieras, CatalogoPaises:
		return true
	}
	return false
}

// ItemCatalogo is one entry of a reference catalog, keyed by numeric code
// within its catalog
type ItemCatalogo struct {
	ID       uint     `json:"-" gorm:"primaryKey;autoIncrement"`
	Catalogo Catalogo `json:"catalogo" gorm:"uniqueIndex:idx_catalogo_codigo"`
	Codigo   uint     `json:"codigo" gorm:"uniqueIndex:idx_catalogo_codigo"`
	Nombre   string   `json:"nombre"`
}

// MovilTipoTracto is the vehicle type that requires a paired trailer
// before an assignment is complete
const MovilTipoTracto = "Tracto"

// Movil represents a vehicle available for assignment
type Movil struct {
	ID      uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Patente string `json:"patente" gorm:"uniqueIndex"`
	Tipo    string `json:"tipo"`
	Marca   string `json:"marca"`
}

// Chofer represents a driver available for assignment
type Chofer struct {
	ID      uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Nombre  string `json:"nombre"`
	Rut     string `json:"rut" gorm:"uniqueIndex"`
	Empresa string `json:"empresa"`
}

// Rampla represents a trailer available for assignment
type Rampla struct {
	ID      uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Patente string `json:"patente" gorm:"uniqueIndex"`
	Tipo    string `json:"tipo"`
}
