// Package health contiene DTOs para el endpoint de health check.
package health

// HealthResponse keeps the {"status","storage"} shape the client polls.
type HealthResponse struct {
	Status  string `json:"status"`          // siempre "OK" si el proceso responde
	Storage string `json:"storage"`         // "Connected" | "Disconnected"
	Cache   string `json:"cache,omitempty"` // idem, solo si hay cache remoto
	Version string `json:"version,omitempty"`
}
