package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"example.com/logistics/services/odv/internal/cache"
	"example.com/logistics/services/odv/internal/lifecycle"
	"example.com/logistics/services/odv/internal/messagebus"
	"example.com/logistics/services/odv/internal/metrics"
	"example.com/logistics/services/odv/internal/model"
	"example.com/logistics/services/odv/internal/repository"
	"example.com/logistics/services/odv/internal/search"
)

// Business errors surfaced to the API layer
var (
	ErrServicioTerminal      = errors.New("el servicio está en un estado terminal y no admite cambios")
	ErrConfirmacionRequerida = errors.New("el servicio queda pendiente de devolución, se requiere confirmación del operador")
	ErrSeguimientoInvalido   = errors.New("estado de seguimiento fuera del vocabulario permitido")
	ErrPuntoNoExiste         = errors.New("el punto indicado no existe en el itinerario")
	ErrNavieraSoloPorteo     = errors.New("la naviera solo aplica a puntos de porteo")
	ErrDestinoInvalido       = errors.New("destino de finalización desconocido")
	ErrRamplaDesconocida     = errors.New("la rampla indicada no existe en la flota")
)

// CreateServicioRequest defines the request to create a service draft
type CreateServicioRequest struct {
	Form      model.Formulario `json:"form"`
	Puntos    []PuntoInput     `json:"puntos" validate:"dive"`
	Chofer    string           `json:"chofer"`
	Movil     string           `json:"movil"`
	CreatedBy string           `json:"created_by" validate:"required"`
}

// PuntoInput defines one itinerary point of a creation request
type PuntoInput struct {
	IDLugar uint         `json:"id_lugar" validate:"required"`
	Accion  model.Accion `json:"accion" validate:"required,min=1,max=12"`
	ETA     *time.Time   `json:"eta"`
	Naviera *uint        `json:"naviera"`
}

// AssignRequest defines the request to assign resources to a service
type AssignRequest struct {
	Empresa string `json:"empresa" validate:"required"`
	Chofer  string `json:"chofer" validate:"required"`
	Movil   string `json:"movil" validate:"required"`
	Rampla  uint   `json:"rampla"`
}

// UpdatePuntoRequest defines the tracking update for an itinerary point
type UpdatePuntoRequest struct {
	ETA           *time.Time `json:"eta"`
	Llegada       *time.Time `json:"llegada"`
	Salida        *time.Time `json:"salida"`
	Observacion   string     `json:"observacion"`
	RazonDeTardia string     `json:"razon_de_tardia"`
	Naviera       *uint      `json:"naviera"`
}

// AddValorRequest defines the request to append an invoice line item
type AddValorRequest struct {
	Concepto      string          `json:"concepto" validate:"required"`
	Costo         string          `json:"costo"`
	Venta         string          `json:"venta"`
	FechaEmision  time.Time       `json:"fecha_emision"`
	Tipo          model.TipoValor `json:"tipo" validate:"required,oneof=costo venta"`
	DescuentoNota string          `json:"descuento_nota"`
}

// submitFields captures the required-field completeness rule checked when
// a draft is sent to operations
type submitFields struct {
	Cliente        string    `validate:"required"`
	TipoOperacion  uint      `validate:"required"`
	Origen         uint      `validate:"required"`
	Destino        uint      `validate:"required"`
	FechaSolicitud time.Time `validate:"required"`
	Puntos         int       `validate:"min=1"`
}

// ServicioService defines the interface for the service record workflow
type ServicioService interface {
	Create(ctx context.Context, req *CreateServicioRequest) (*model.Servicio, error)
	GetByID(ctx context.Context, id uint) (*model.Servicio, error)
	List(ctx context.Context) ([]*model.Servicio, error)
	UpdateForm(ctx context.Context, id uint, form model.Formulario) (*model.Servicio, error)
	DeleteDraft(ctx context.Context, id uint) error

	Submit(ctx context.Context, id uint) (*model.Servicio, error)
	AssignResources(ctx context.Context, id uint, req *AssignRequest) (*model.Servicio, error)
	MarkFalsoFlete(ctx context.Context, id uint, porcentaje float64) (*model.Servicio, error)
	AdvanceToReview(ctx context.Context, id uint, confirmaDevolucion bool) (*model.Servicio, error)
	Finalize(ctx context.Context, id uint, destino string) (*model.Servicio, error)

	UpdatePunto(ctx context.Context, id uint, orden int, req *UpdatePuntoRequest) (*model.Servicio, error)
	SetEstadoSeguimiento(ctx context.Context, id uint, estado string) (*model.Servicio, error)
	AddValor(ctx context.Context, id uint, req *AddValorRequest) (*model.Servicio, error)
	SearchBoard(ctx context.Context, query interface{}) ([]json.RawMessage, error)

	CreateImportBatch(ctx context.Context, req *ImportBatchRequest) (*ImportBatchResult, error)
	RollbackImportBatch(ctx context.Context, batchID string) (int, error)
}

// servicioService implements ServicioService
type servicioService struct {
	repo        repository.ServicioRepository
	catalogRepo repository.CatalogRepository
	cache       cache.CacheClient
	messageBus  messagebus.Client
	search      search.Client
	validate    *validator.Validate
	erpQueue    string
}

// NewServicioService creates a new service record service
func NewServicioService(
	repo repository.ServicioRepository,
	catalogRepo repository.CatalogRepository,
	cacheClient cache.CacheClient,
	messageBus messagebus.Client,
	searchClient search.Client,
	erpQueue string,
) ServicioService {
	return &servicioService{
		repo:        repo,
		catalogRepo: catalogRepo,
		cache:       cacheClient,
		messageBus:  messageBus,
		search:      searchClient,
		validate:    validator.New(),
		erpQueue:    erpQueue,
	}
}

// Create creates a new service draft in Pendiente
func (s *servicioService) Create(ctx context.Context, req *CreateServicioRequest) (*model.Servicio, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	startTime := time.Now()
	collector := metrics.GetMetricsCollector()

	servicio := &model.Servicio{
		Formulario:        req.Form,
		Estado:            model.EstadoPendiente,
		EstadoSeguimiento: model.SeguimientoSinIniciar,
		Chofer:            req.Chofer,
		Movil:             req.Movil,
		CreatedBy:         req.CreatedBy,
	}
	for i, p := range req.Puntos {
		servicio.Puntos = append(servicio.Puntos, model.Punto{
			Orden:   i,
			IDLugar: p.IDLugar,
			Accion:  p.Accion,
			ETA:     p.ETA,
			Naviera: p.Naviera,
		})
	}
	lifecycle.RecomputeDerived(servicio)

	servicio, err := s.repo.Create(ctx, servicio)
	if err != nil {
		collector.RecordError(metrics.ErrorTypeDatabase)
		return nil, err
	}

	collector.RecordTransition(metrics.TransitionTypeCreate, time.Since(startTime))
	s.afterSave(ctx, servicio)
	return servicio, nil
}

// GetByID gets a service record by ID
func (s *servicioService) GetByID(ctx context.Context, id uint) (*model.Servicio, error) {
	// Try to get from cache first
	servicio, err := s.cache.GetServicio(ctx, id)
	if err == nil {
		return servicio, nil
	}
	if err != redis.Nil {
		// Log the error but continue to get from database
		logrus.WithError(err).Warn("Failed to get servicio from cache")
	}

	servicio, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetServicio(ctx, servicio); err != nil {
		logrus.WithError(err).Warn("Failed to cache servicio")
	}

	return servicio, nil
}

// List lists all service records
func (s *servicioService) List(ctx context.Context) ([]*model.Servicio, error) {
	return s.repo.List(ctx)
}

// UpdateForm replaces the commercial form of a non-terminal service
func (s *servicioService) UpdateForm(ctx context.Context, id uint, form model.Formulario) (*model.Servicio, error) {
	servicio, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if servicio.Estado.Terminal() {
		return nil, ErrServicioTerminal
	}

	servicio.Formulario = form
	return s.persist(ctx, servicio, "")
}

// DeleteDraft deletes a draft service. Sent records are never deleted.
func (s *servicioService) DeleteDraft(ctx context.Context, id uint) error {
	if err := s.repo.DeleteDraft(ctx, id); err != nil {
		return err
	}
	if err := s.cache.DeleteServicio(ctx, id); err != nil {
		logrus.WithError(err).Warn("Failed to evict servicio from cache")
	}
	return nil
}

// Submit sends a draft to operations
func (s *servicioService) Submit(ctx context.Context, id uint) (*model.Servicio, error) {
	servicio, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := submitFields{
		Cliente:        servicio.Cliente,
		TipoOperacion:  servicio.TipoOperacion,
		Origen:         servicio.Origen,
		Destino:        servicio.Destino,
		FechaSolicitud: servicio.FechaSolicitud,
		Puntos:         len(servicio.Puntos),
	}
	if err := s.validate.Struct(fields); err != nil {
		return nil, err
	}

	if err := s.transition(servicio, lifecycle.Submit); err != nil {
		return nil, err
	}
	return s.persist(ctx, servicio, metrics.TransitionTypeSubmit)
}

// AssignResources assigns company, driver and vehicle to a service. The
// vehicle type is resolved from the fleet catalog so that tractor units
// enforce the paired-trailer rule.
func (s *servicioService) AssignResources(ctx context.Context, id uint, req *AssignRequest) (*model.Servicio, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	servicio, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	movilTipo := ""
	movil, err := s.catalogRepo.GetMovilByPatente(ctx, req.Movil)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if movil != nil {
		movilTipo = movil.Tipo
	}

	if req.Rampla != 0 {
		if _, err := s.catalogRepo.GetRamplaByID(ctx, req.Rampla); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrRamplaDesconocida
			}
			return nil, err
		}
	}

	// Drivers outside the fleet catalog are allowed but worth flagging
	if _, err := s.catalogRepo.GetChoferByNombre(ctx, req.Chofer); errors.Is(err, repository.ErrNotFound) {
		logrus.WithField("chofer", req.Chofer).Warn("Assigned driver is not in the fleet catalog")
	}

	in := lifecycle.AssignInput{
		Empresa:   req.Empresa,
		Chofer:    req.Chofer,
		Movil:     req.Movil,
		MovilTipo: movilTipo,
		Rampla:    req.Rampla,
	}
	if err := s.transition(servicio, func(sv *model.Servicio) error {
		return lifecycle.AssignResources(sv, in)
	}); err != nil {
		return nil, err
	}
	return s.persist(ctx, servicio, metrics.TransitionTypeAssign)
}

// MarkFalsoFlete diverts a service to the false-freight outcome
func (s *servicioService) MarkFalsoFlete(ctx context.Context, id uint, porcentaje float64) (*model.Servicio, error) {
	servicio, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.transition(servicio, func(sv *model.Servicio) error {
		return lifecycle.MarkFalsoFlete(sv, porcentaje)
	}); err != nil {
		return nil, err
	}
	return s.persist(ctx, servicio, metrics.TransitionTypeFalsoFlete)
}

// AdvanceToReview moves a service to PorValidar. When the itinerary leaves
// a container pending return the operator must have confirmed explicitly;
// otherwise nothing is persisted.
func (s *servicioService) AdvanceToReview(ctx context.Context, id uint, confirmaDevolucion bool) (*model.Servicio, error) {
	servicio, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.transition(servicio, lifecycle.AdvanceToReview); err != nil {
		return nil, err
	}
	if servicio.PendienteDevolucion && !confirmaDevolucion {
		// The in-memory mutation is discarded; the stored record is untouched
		return nil, ErrConfirmacionRequerida
	}
	return s.persist(ctx, servicio, metrics.TransitionTypeReview)
}

// Finalize closes the review stage toward Completado or PorFacturar
func (s *servicioService) Finalize(ctx context.Context, id uint, destino string) (*model.Servicio, error) {
	estado, ok := model.EstadoFromString(destino)
	if !ok {
		return nil, ErrDestinoInvalido
	}

	servicio, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.transition(servicio, func(sv *model.Servicio) error {
		return lifecycle.Finalize(sv, estado)
	}); err != nil {
		return nil, err
	}
	return s.persist(ctx, servicio, metrics.TransitionTypeFinalize)
}

// UpdatePunto records tracking data for one itinerary point and refreshes
// the derived pending-return flag
func (s *servicioService) UpdatePunto(ctx context.Context, id uint, orden int, req *UpdatePuntoRequest) (*model.Servicio, error) {
	servicio, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if servicio.Estado.Terminal() {
		return nil, ErrServicioTerminal
	}

	idx := -1
	for i := range servicio.Puntos {
		if servicio.Puntos[i].Orden == orden {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrPuntoNoExiste
	}

	punto := &servicio.Puntos[idx]
	if req.Naviera != nil && punto.Accion != model.AccionPorteo {
		return nil, ErrNavieraSoloPorteo
	}

	if req.ETA != nil {
		punto.ETA = req.ETA
	}
	if req.Llegada != nil {
		punto.Llegada = req.Llegada
	}
	if req.Salida != nil {
		punto.Salida = req.Salida
	}
	if req.Observacion != "" {
		punto.Observacion = req.Observacion
	}
	if req.RazonDeTardia != "" {
		punto.RazonDeTardia = req.RazonDeTardia
	}
	if req.Naviera != nil {
		punto.Naviera = req.Naviera
	}

	switch {
	case punto.Completo():
		punto.Estado = 2
	case punto.Llegada != nil:
		punto.Estado = 1
	default:
		punto.Estado = 0
	}

	lifecycle.RecomputeDerived(servicio)
	return s.persist(ctx, servicio, "")
}

// SetEstadoSeguimiento sets the dispatch-board tracking label
func (s *servicioService) SetEstadoSeguimiento(ctx context.Context, id uint, estado string) (*model.Servicio, error) {
	seguimiento, ok := model.SeguimientoFromString(estado)
	if !ok {
		return nil, ErrSeguimientoInvalido
	}

	servicio, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if servicio.Estado.Terminal() {
		return nil, ErrServicioTerminal
	}

	servicio.EstadoSeguimiento = seguimiento
	return s.persist(ctx, servicio, "")
}

// AddValor appends an invoice line item to a service
func (s *servicioService) AddValor(ctx context.Context, id uint, req *AddValorRequest) (*model.Servicio, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	servicio, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	valor, err := valorFromRequest(servicio.ID, req)
	if err != nil {
		return nil, err
	}
	servicio.Valores = append(servicio.Valores, *valor)
	return s.persist(ctx, servicio, "")
}

// SearchBoard runs a dispatch-board query against the search index
func (s *servicioService) SearchBoard(ctx context.Context, query interface{}) ([]json.RawMessage, error) {
	docs, err := s.search.SearchServicios(ctx, query)
	if err != nil {
		metrics.GetMetricsCollector().RecordError(metrics.ErrorTypeSearch)
		return nil, err
	}
	return docs, nil
}

// transition runs a lifecycle transition, recording rejected preconditions
func (s *servicioService) transition(servicio *model.Servicio, fn func(*model.Servicio) error) error {
	if err := fn(servicio); err != nil {
		collector := metrics.GetMetricsCollector()
		collector.RecordTransition(metrics.TransitionTypeRejected, 0)
		return err
	}
	return nil
}

// persist saves the full record, refreshes the caches and notifies the ERP.
// The database write is the atomic step: cache, search and ERP publication
// happen only after it succeeds and never fail the operation.
func (s *servicioService) persist(ctx context.Context, servicio *model.Servicio, transitionType string) (*model.Servicio, error) {
	startTime := time.Now()
	collector := metrics.GetMetricsCollector()

	servicio, err := s.repo.Update(ctx, servicio)
	if err != nil {
		collector.RecordError(metrics.ErrorTypeDatabase)
		return nil, err
	}

	if transitionType != "" {
		collector.RecordTransition(transitionType, time.Since(startTime))
	}

	s.afterSave(ctx, servicio)

	if transitionType != "" {
		s.publishEstado(servicio)
	}

	return servicio, nil
}

// afterSave refreshes the cache and the board index
func (s *servicioService) afterSave(ctx context.Context, servicio *model.Servicio) {
	if err := s.cache.SetServicio(ctx, servicio); err != nil {
		logrus.WithError(err).Warn("Failed to cache servicio")
	}
	if err := s.search.IndexServicio(ctx, servicio); err != nil {
		logrus.WithError(err).Warn("Failed to index servicio")
		metrics.GetMetricsCollector().RecordError(metrics.ErrorTypeSearch)
	}
}

// EstadoEvent is the status-change notification published to the ERP
type EstadoEvent struct {
	ServicioID          uint      `json:"servicio_id"`
	Folio               string    `json:"folio"`
	Estado              string    `json:"estado"`
	PendienteDevolucion bool      `json:"pendiente_devolucion"`
	OccurredAt          time.Time `json:"occurred_at"`
}

// publishEstado notifies the ERP of a status change in the background
func (s *servicioService) publishEstado(servicio *model.Servicio) {
	event := EstadoEvent{
		ServicioID:          servicio.ID,
		Folio:               servicio.Folio,
		Estado:              servicio.Estado.String(),
		PendienteDevolucion: servicio.PendienteDevolucion,
		OccurredAt:          time.Now(),
	}

	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := messagebus.RetryWithBackoff(pubCtx, func() error {
			return s.messageBus.PublishMessage(pubCtx, event, s.erpQueue)
		}, 3)
		if err != nil {
			logrus.WithError(err).Error("Failed to publish estado event to ERP")
		}
	}()
}
