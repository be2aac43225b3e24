package cmd

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"example.com/logistics/services/odv/internal/db"
	"example.com/logistics/services/odv/internal/model"
	"example.com/logistics/services/odv/internal/repository"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the reference catalogs",
	Run: func(cmd *cobra.Command, args []string) {
		// Load configuration
		cfg, err := loadConfig()
		if err != nil {
			logrus.Fatalf("Failed to load configuration: %v", err)
		}

		// Connect to database
		dbConn, err := db.Connect(&cfg.Database)
		if err != nil {
			logrus.Fatalf("Failed to connect to database: %v", err)
		}

		// Run migrations first so the catalog tables exist
		if err := db.Migrate(dbConn); err != nil {
			logrus.Fatalf("Failed to run database migrations: %v", err)
		}

		catalogRepo := repository.NewCatalogRepository(dbConn)

		logrus.Info("Seeding reference catalogs...")
		if err := catalogRepo.Seed(context.Background(), seedItems(), seedMoviles(), seedChoferes(), seedRamplas()); err != nil {
			logrus.Fatalf("Failed to seed catalogs: %v", err)
		}

		logrus.Info("Catalog seeding completed successfully")
	},
}

// seedItems returns the baseline catalog entries. Existing entries are
// left untouched, so re-running the command is safe.
func seedItems() []model.ItemCatalogo {
	items := []model.ItemCatalogo{
		// Itinerary point actions
		{Catalogo: model.CatalogoAcciones, Codigo: uint(model.AccionRetiroVacio), Nombre: "Retiro de contenedor vacío"},
		{Catalogo: model.CatalogoAcciones, Codigo: uint(model.AccionRetiroCargado), Nombre: "Retiro de contenedor cargado"},
		{Catalogo: model.CatalogoAcciones, Codigo: uint(model.AccionEntregaVacio), Nombre: "Entrega de contenedor vacío"},
		{Catalogo: model.CatalogoAcciones, Codigo: uint(model.AccionEntregaCargado), Nombre: "Entrega de contenedor cargado"},
		{Catalogo: model.CatalogoAcciones, Codigo: uint(model.AccionAlmacenajeContenido), Nombre: "Almacenaje de contenido"},
		{Catalogo: model.CatalogoAcciones, Codigo: uint(model.AccionLlenado), Nombre: "Llenado de contenedor"},
		{Catalogo: model.CatalogoAcciones, Codigo: uint(model.AccionVaciado), Nombre: "Vaciado de contenedor"},
		{Catalogo: model.CatalogoAcciones, Codigo: uint(model.AccionPorteo), Nombre: "Porteo"},
		{Catalogo: model.CatalogoAcciones, Codigo: uint(model.AccionAlmacenaje), Nombre: "Almacenaje de contenedor"},
		{Catalogo: model.CatalogoAcciones, Codigo: uint(model.AccionResguardo), Nombre: "Resguardo"},
		{Catalogo: model.CatalogoAcciones, Codigo: uint(model.AccionRetiroCarga), Nombre: "Retiro de carga"},
		{Catalogo: model.CatalogoAcciones, Codigo: uint(model.AccionEntregaCarga), Nombre: "Entrega de carga"},

		// Operation types
		{Catalogo: model.CatalogoTiposOperacion, Codigo: 1, Nombre: "Importación"},
		{Catalogo: model.CatalogoTiposOperacion, Codigo: 2, Nombre: "Exportación"},
		{Catalogo: model.CatalogoTiposOperacion, Codigo: 3, Nombre: "Nacional"},
		{Catalogo: model.CatalogoTiposOperacion, Codigo: 4, Nombre: "Porteo"},

		// Locations
		{Catalogo: model.CatalogoLugares, Codigo: 1, Nombre: "Puerto San Antonio"},
		{Catalogo: model.CatalogoLugares, Codigo: 2, Nombre: "Puerto Valparaíso"},
		{Catalogo: model.CatalogoLugares, Codigo: 3, Nombre: "Depósito El Sauce"},
		{Catalogo: model.CatalogoLugares, Codigo: 4, Nombre: "Bodega Pudahuel"},
		{Catalogo: model.CatalogoLugares, Codigo: 5, Nombre: "Centro Distribución Maipú"},

		// Container types
		{Catalogo: model.CatalogoTiposContenedor, Codigo: 1, Nombre: "20 DV"},
		{Catalogo: model.CatalogoTiposContenedor, Codigo: 2, Nombre: "40 DV"},
		{Catalogo: model.CatalogoTiposContenedor, Codigo: 3, Nombre: "40 HC"},
		{Catalogo: model.CatalogoTiposContenedor, Codigo: 4, Nombre: "40 RF"},

		// Carriers
		{Catalogo: model.CatalogoNavieras, Codigo: 1, Nombre: "Maersk"},
		{Catalogo: model.CatalogoNavieras, Codigo: 2, Nombre: "MSC"},
		{Catalogo: model.CatalogoNavieras, Codigo: 3, Nombre: "Hapag-Lloyd"},
		{Catalogo: model.CatalogoNavieras, Codigo: 4, Nombre: "CMA CGM"},

		// Countries
		{Catalogo: model.CatalogoPaises, Codigo: 1, Nombre: "Chile"},
		{Catalogo: model.CatalogoPaises, Codigo: 2, Nombre: "Perú"},
		{Catalogo: model.CatalogoPaises, Codigo: 3, Nombre: "Argentina"},
		{Catalogo: model.CatalogoPaises, Codigo: 4, Nombre: "China"},
		{Catalogo: model.CatalogoPaises, Codigo: 5, Nombre: "Estados Unidos"},
	}
	return items
}

func seedMoviles() []model.Movil {
	return []model.Movil{
		{Patente: "ABCD12", Tipo: model.MovilTipoTracto, Marca: "Volvo"},
		{Patente: "EFGH34", Tipo: model.MovilTipoTracto, Marca: "Scania"},
		{Patente: "IJKL56", Tipo: "Camión", Marca: "Mercedes-Benz"},
	}
}

func seedChoferes() []model.Chofer {
	return []model.Chofer{
		{Nombre: "Juan Pérez", Rut: "12.345.678-5", Empresa: "Transportes Andes"},
		{Nombre: "María González", Rut: "9.876.543-2", Empresa: "Transportes Andes"},
		{Nombre: "Pedro Soto", Rut: "15.432.198-7", Empresa: "Logística Sur"},
	}
}

func seedRamplas() []model.Rampla {
	return []model.Rampla{
		{Patente: "JRSB81", Tipo: "Plana"},
		{Patente: "JRSB82", Tipo: "Portacontenedor"},
		{Patente: "JRSB83", Tipo: "Refrigerada"},
	}
}
