package health

import "time"

// MsgUpdated is broadcast to websocket clients when a catalog changes status.
const MsgUpdated = "health:updated"

// Status is the outcome of the most recent check of a catalog.
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarning Status = "warning" // reachable but slow
	StatusError   Status = "error"   // unreachable or failing
)

// CatalogState is what is known about one remote catalog.
type CatalogState struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Status    Status     `json:"status"`
	Message   string     `json:"message,omitempty"`
	LatencyMS int64      `json:"latencyMs"`
	Since     *time.Time `json:"since,omitempty"` // start of the current non-OK status
	LastCheck *time.Time `json:"lastCheck,omitempty"`
}

// Report is returned by GET /api/v1/health.
type Report struct {
	Catalog []CatalogState `json:"catalog"`
}

// Summary counts catalogs by status.
type Summary struct {
	OK      int  `json:"ok"`
	Warning int  `json:"warning"`
	Error   int  `json:"error"`
	Healthy bool `json:"healthy"`
}
