package search

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"example.com/logistics/services/odv/config"
	"example.com/logistics/services/odv/internal/model"
)

// Client is an interface for the operations-board search index
type Client interface {
	IndexServicio(ctx context.Context, servicio *model.Servicio) error
	SearchServicios(ctx context.Context, query interface{}) ([]json.RawMessage, error)
}

// ServicioDoc is the flattened document indexed for the dispatch board
type ServicioDoc struct {
	ID                  uint      `json:"id"`
	Folio               string    `json:"folio"`
	Cliente             string    `json:"cliente"`
	Estado              string    `json:"estado"`
	EstadoSeguimiento   string    `json:"estado_seguimiento"`
	PendienteDevolucion bool      `json:"pendiente_devolucion"`
	Empresa             string    `json:"empresa"`
	Chofer              string    `json:"chofer"`
	Movil               string    `json:"movil"`
	FechaSolicitud      time.Time `json:"fecha_solicitud"`
	Puntos              int       `json:"puntos"`
	IndexedAt           time.Time `json:"indexed_at"`
}

// esClient implements the Client interface
type esClient struct {
	client *elasticsearch.Client
	index  string
}

// NewClient creates a new Elasticsearch client
func NewClient(cfg config.ElasticsearchConfig) (Client, error) {
	esCfg := elasticsearch.Config{
		Addresses: cfg.URLs,
	}

	if cfg.Username != "" && cfg.Password != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	esCfg.Transport = &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	// Test the connection
	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("Elasticsearch error: %s", res.String())
	}

	return &esClient{
		client: client,
		index:  cfg.Index,
	}, nil
}

// IndexServicio indexes the board document for a service record
func (e *esClient) IndexServicio(ctx context.Context, servicio *model.Servicio) error {
	doc := ServicioDoc{
		ID:                  servicio.ID,
		Folio:               servicio.Folio,
		Cliente:             servicio.Cliente,
		Estado:              servicio.Estado.String(),
		EstadoSeguimiento:   servicio.EstadoSeguimiento.String(),
		PendienteDevolucion: servicio.PendienteDevolucion,
		Empresa:             servicio.Empresa,
		Chofer:              servicio.Chofer,
		Movil:               servicio.Movil,
		FechaSolicitud:      servicio.FechaSolicitud,
		Puntos:              len(servicio.Puntos),
		IndexedAt:           time.Now(),
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal servicio document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      e.index,
		DocumentID: strconv.FormatUint(uint64(servicio.ID), 10),
		Body:       bytes.NewReader(body),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document: %s", res.String())
	}

	return nil
}

// SearchServicios searches board documents with the given query
func (e *esClient) SearchServicios(ctx context.Context, query interface{}) ([]json.RawMessage, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search documents: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching documents: %s", res.String())
	}

	var result struct {
		Hits struct {
			Hits []struct {
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	documents := make([]json.RawMessage, len(result.Hits.Hits))
	for i, hit := range result.Hits.Hits {
		documents[i] = hit.Source
	}

	return documents, nil
}
