package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"example.com/logistics/services/odv/internal/model"
	"example.com/logistics/services/odv/internal/service"
)

// Handler defines the API handler
type Handler struct {
	servicioService service.ServicioService
	catalogService  service.CatalogService
}

// NewHandler creates a new API handler
func NewHandler(
	servicioService service.ServicioService,
	catalogService service.CatalogService,
) *Handler {
	return &Handler{
		servicioService: servicioService,
		catalogService:  catalogService,
	}
}

// RegisterRoutes registers API routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Service record routes
	r.HandleFunc("/servicios", h.CreateServicio).Methods(http.MethodPost)
	r.HandleFunc("/servicios", h.ListServicios).Methods(http.MethodGet)
	r.HandleFunc("/servicios/{id}", h.GetServicio).Methods(http.MethodGet)
	r.HandleFunc("/servicios/{id}", h.UpdateForm).Methods(http.MethodPut)
	r.HandleFunc("/servicios/{id}", h.DeleteDraft).Methods(http.MethodDelete)

	// Lifecycle transitions
	r.HandleFunc("/servicios/{id}/enviar", h.Submit).Methods(http.MethodPost)
	r.HandleFunc("/servicios/{id}/asignar", h.AssignResources).Methods(http.MethodPost)
	r.HandleFunc("/servicios/{id}/falso-flete", h.MarkFalsoFlete).Methods(http.MethodPost)
	r.HandleFunc("/servicios/{id}/validar", h.AdvanceToReview).Methods(http.MethodPost)
	r.HandleFunc("/servicios/{id}/finalizar", h.Finalize).Methods(http.MethodPost)

	// Dispatch-board search
	r.HandleFunc("/servicios/buscar", h.SearchBoard).Methods(http.MethodPost)

	// Tracking and valuation
	r.HandleFunc("/servicios/{id}/puntos/{orden}", h.UpdatePunto).Methods(http.MethodPut)
	r.HandleFunc("/servicios/{id}/seguimiento", h.SetEstadoSeguimiento).Methods(http.MethodPut)
	r.HandleFunc("/servicios/{id}/valores", h.AddValor).Methods(http.MethodPost)

	// Import batches
	r.HandleFunc("/importaciones", h.CreateImportBatch).Methods(http.MethodPost)
	r.HandleFunc("/importaciones/{batchId}", h.RollbackImportBatch).Methods(http.MethodDelete)

	// Catalogs
	r.HandleFunc("/catalogos/{catalogo}", h.ListCatalog).Methods(http.MethodGet)
	r.HandleFunc("/catalogos/{catalogo}/{codigo}", h.LookupCatalog).Methods(http.MethodGet)

	// Metrics and health endpoints
	r.HandleFunc("/metrics", MetricsHandler).Methods(http.MethodGet)
	r.HandleFunc("/health", HealthHandler).Methods(http.MethodGet)
}

// servicioID parses the {id} path variable
func servicioID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// servicioResponse decorates a record with its display metadata so list
// and board views don't re-derive badges client side
type servicioResponse struct {
	*model.Servicio
	EstadoDisplay      model.Display `json:"estado_display"`
	SeguimientoDisplay model.Display `json:"seguimiento_display"`
}

func newServicioResponse(s *model.Servicio) servicioResponse {
	return servicioResponse{
		Servicio:           s,
		EstadoDisplay:      s.Estado.Display(),
		SeguimientoDisplay: s.EstadoSeguimiento.Display(),
	}
}

// CreateServicio creates a service draft
func (h *Handler) CreateServicio(w http.ResponseWriter, r *http.Request) {
	var req service.CreateServicioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewValidationError("Invalid request body"))
		return
	}

	servicio, err := h.servicioService.Create(r.Context(), &req)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, newServicioResponse(servicio))
}

// ListServicios lists all service records
func (h *Handler) ListServicios(w http.ResponseWriter, r *http.Request) {
	servicios, err := h.servicioService.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response := make([]servicioResponse, len(servicios))
	for i, s := range servicios {
		response[i] = newServicioResponse(s)
	}
	writeJSONResponse(w, http.StatusOK, response)
}

// GetServicio gets one service record
func (h *Handler) GetServicio(w http.ResponseWriter, r *http.Request) {
	id, ok := servicioID(r)
	if !ok {
		WriteError(w, ErrInvalidRequest)
		return
	}

	servicio, err := h.servicioService.GetByID(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, newServicioResponse(servicio))
}

// UpdateForm updates the commercial form of a service
func (h *Handler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	id, ok := servicioID(r)
	if !ok {
		WriteError(w, ErrInvalidRequest)
		return
	}

	var form model.Formulario
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		WriteError(w, NewValidationError("Invalid request body"))
		return
	}

	servicio, err := h.servicioService.UpdateForm(r.Context(), id, form)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, newServicioResponse(servicio))
}

// DeleteDraft deletes a draft service record
func (h *Handler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := servicioID(r)
	if !ok {
		WriteError(w, ErrInvalidRequest)
		return
	}

	if err := h.servicioService.DeleteDraft(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// Submit sends a draft to operations
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := servicioID(r)
	if !ok {
		WriteError(w, ErrInvalidRequest)
		return
	}

	servicio, err := h.servicioService.Submit(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, newServicioResponse(servicio))
}

// AssignResources assigns company, driver and vehicle
func (h *Handler) AssignResources(w http.ResponseWriter, r *http.Request) {
	id, ok := servicioID(r)
	if !ok {
		WriteError(w, ErrInvalidRequest)
		return
	}

	var req service.AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewValidationError("Invalid request body"))
		return
	}

	servicio, err := h.servicioService.AssignResources(r.Context(), id, &req)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, newServicioResponse(servicio))
}

// falsoFleteRequest carries the operator-supplied discount percentage
type falsoFleteRequest struct {
	PorcentajeDescuento float64 `json:"porcentaje_descuento"`
}

// MarkFalsoFlete diverts a service to the false-freight outcome
func (h *Handler) MarkFalsoFlete(w http.ResponseWriter, r *http.Request) {
	id, ok := servicioID(r)
	if !ok {
		WriteError(w, ErrInvalidRequest)
		return
	}

	var req falsoFleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewValidationError("Invalid request body"))
		return
	}

	servicio, err := h.servicioService.MarkFalsoFlete(r.Context(), id, req.PorcentajeDescuento)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, newServicioResponse(servicio))
}

// validarRequest carries the operator confirmation for pending returns
type validarRequest struct {
	ConfirmaDevolucion bool `json:"confirma_devolucion"`
}

// AdvanceToReview moves a service to PorValidar
func (h *Handler) AdvanceToReview(w http.ResponseWriter, r *http.Request) {
	id, ok := servicioID(r)
	if !ok {
		WriteError(w, ErrInvalidRequest)
		return
	}

	var req validarRequest
	if r.Body != nil {
		// An empty body means no confirmation was given
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	servicio, err := h.servicioService.AdvanceToReview(r.Context(), id, req.ConfirmaDevolucion)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, newServicioResponse(servicio))
}

// finalizarRequest names the destination of the review stage
type finalizarRequest struct {
	Destino string `json:"destino"`
}

// Finalize closes the review stage
func (h *Handler) Finalize(w http.ResponseWriter, r *http.Request) {
	id, ok := servicioID(r)
	if !ok {
		WriteError(w, ErrInvalidRequest)
		return
	}

	var req finalizarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewValidationError("Invalid request body"))
		return
	}

	servicio, err := h.servicioService.Finalize(r.Context(), id, req.Destino)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, newServicioResponse(servicio))
}

// SearchBoard runs a dispatch-board query against the search index
func (h *Handler) SearchBoard(w http.ResponseWriter, r *http.Request) {
	var query map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		WriteError(w, NewValidationError("Invalid request body"))
		return
	}

	docs, err := h.servicioService.SearchBoard(r.Context(), query)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, docs)
}

// UpdatePunto records tracking data for one itinerary point
func (h *Handler) UpdatePunto(w http.ResponseWriter, r *http.Request) {
	id, ok := servicioID(r)
	if !ok {
		WriteError(w, ErrInvalidRequest)
		return
	}

	orden, err := strconv.Atoi(mux.Vars(r)["orden"])
	if err != nil {
		WriteError(w, ErrInvalidRequest)
		return
	}

	var req service.UpdatePuntoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewValidationError("Invalid request body"))
		return
	}

	servicio, err := h.servicioService.UpdatePunto(r.Context(), id, orden, &req)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, newServicioResponse(servicio))
}

// seguimientoRequest carries the selected tracking label
type seguimientoRequest struct {
	Estado string `json:"estado"`
}

// SetEstadoSeguimiento sets the dispatch-board tracking label
func (h *Handler) SetEstadoSeguimiento(w http.ResponseWriter, r *http.Request) {
	id, ok := servicioID(r)
	if !ok {
		WriteError(w, ErrInvalidRequest)
		return
	}

	var req seguimientoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewValidationError("Invalid request body"))
		return
	}

	servicio, err := h.servicioService.SetEstadoSeguimiento(r.Context(), id, req.Estado)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, newServicioResponse(servicio))
}

// AddValor appends an invoice line item
func (h *Handler) AddValor(w http.ResponseWriter, r *http.Request) {
	id, ok := servicioID(r)
	if !ok {
		WriteError(w, ErrInvalidRequest)
		return
	}

	var req service.AddValorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewValidationError("Invalid request body"))
		return
	}

	servicio, err := h.servicioService.AddValor(r.Context(), id, &req)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, newServicioResponse(servicio))
}

// CreateImportBatch imports a batch of service drafts
func (h *Handler) CreateImportBatch(w http.ResponseWriter, r *http.Request) {
	var req service.ImportBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewValidationError("Invalid request body"))
		return
	}

	result, err := h.servicioService.CreateImportBatch(r.Context(), &req)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, result)
}

// RollbackImportBatch removes the still-draft records of a batch
func (h *Handler) RollbackImportBatch(w http.ResponseWriter, r *http.Request) {
	batchID := mux.Vars(r)["batchId"]

	removed, err := h.servicioService.RollbackImportBatch(r.Context(), batchID)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"removed": removed,
	})
}

// ListCatalog lists the entries of a catalog
func (h *Handler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	catalogo := model.Catalogo(mux.Vars(r)["catalogo"])

	items, err := h.catalogService.ListCatalog(r.Context(), catalogo)
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, items)
}

// LookupCatalog resolves one catalog entry by code
func (h *Handler) LookupCatalog(w http.ResponseWriter, r *http.Request) {
	catalogo := model.Catalogo(mux.Vars(r)["catalogo"])
	codigo, err := strconv.ParseUint(mux.Vars(r)["codigo"], 10, 64)
	if err != nil {
		WriteError(w, ErrInvalidRequest)
		return
	}

	item, err := h.catalogService.Lookup(r.Context(), catalogo, uint(codigo))
	if err != nil {
		WriteError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, item)
}

// writeJSONResponse writes a JSON response
func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Error("Failed to encode JSON response")
	}
}
