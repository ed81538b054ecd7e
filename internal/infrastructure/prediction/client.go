package prediction

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/inventario-lab/internal/application/dto"
	"github.com/jhoicas/inventario-lab/internal/application/ports"
	"github.com/jhoicas/inventario-lab/pkg/logger"
)

// Verificar en tiempo de compilación que Client implementa ForecastService.
var _ ports.ForecastService = (*Client)(nil)

// Client adaptador HTTP hacia el servicio de predicción de consumo (Flask).
// Rutas: {base}/predecir/{id} y {base}/precision.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el adaptador. timeout se aplica por llamada con context.WithTimeout.
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		httpClient: &http.Client{
			// Tope de red; el contexto por llamada manda.
			Timeout: 2 * timeout,
		},
		log: log,
	}
}

// errorPayload el servicio reporta fallas como {"error": "..."} incluso con 200.
type errorPayload struct {
	Error string `json:"error"`
}

// Predict obtiene el pronóstico de un insumo. Nunca devuelve error: las fallas
// quedan en ForecastResult.Error con Available=false.
func (c *Client) Predict(ctx context.Context, itemID string) dto.ForecastResult {
	raw, err := c.get(ctx, "/predecir/"+url.PathEscape(itemID))
	if err != nil {
		c.log.Warn().Err(err).Str("insumo", itemID).Msg("servicio de predicción no disponible")
		return dto.ForecastResult{Error: err.Error()}
	}
	var forecast dto.ForecastDTO
	if err := json.Unmarshal(raw, &forecast); err != nil {
		return dto.ForecastResult{Error: fmt.Sprintf("predicción: respuesta inválida: %v", err)}
	}
	return dto.ForecastResult{Available: true, Forecast: &forecast}
}

// Precision obtiene la métrica de precisión del modelo; 0 si el servicio no la informa.
func (c *Client) Precision(ctx context.Context) dto.PrecisionResult {
	raw, err := c.get(ctx, "/precision")
	if err != nil {
		c.log.Warn().Err(err).Msg("servicio de predicción no disponible")
		return dto.PrecisionResult{Error: err.Error()}
	}
	var body struct {
		Precision *float64 `json:"precision"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return dto.PrecisionResult{Error: fmt.Sprintf("predicción: respuesta inválida: %v", err)}
	}
	p := 0.0
	if body.Precision != nil {
		p = *body.Precision
	}
	return dto.PrecisionResult{Available: true, Precision: &p}
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("predicción: crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("predicción: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("predicción: no se pudo conectar al servicio: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return nil, fmt.Errorf("predicción: leer respuesta: %w", err)
	}

	var ep errorPayload
	if jsonErr := json.Unmarshal(raw, &ep); jsonErr == nil && ep.Error != "" {
		return nil, fmt.Errorf("predicción: %s", ep.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("predicción: HTTP %d", resp.StatusCode)
	}
	return raw, nil
}
