package rest

import "net/http"

// Handlers bundles everything the router mounts.
type Handlers struct {
	Health    *HealthHandler
	Checklist *ChecklistHandler
	Documents *DocumentsHandler
	SOS       *SOSHandler
	Safety    *SafetyHandler
}

// NewRouter builds the HTTP routing table. Health probes are served
// unauthenticated at the root; everything else lives under /api/v1 behind
// authMW.
func NewRouter(h Handlers, authMW func(http.Handler) http.Handler) http.Handler {
	api := http.NewServeMux()

	api.HandleFunc("GET /trips/{tripID}/checklist", h.Checklist.Get)
	api.HandleFunc("PUT /trips/{tripID}/checklist/items/{itemID}/checked", h.Checklist.SetChecked)
	api.HandleFunc("PUT /trips/{tripID}/checklist/items/{itemID}/notes", h.Checklist.SetNotes)
	api.HandleFunc("POST /trips/{tripID}/checklist/reset", h.Checklist.Reset)
	api.HandleFunc("POST /trips/{tripID}/checklist/complete", h.Checklist.Complete)
	api.HandleFunc("GET /trips/{tripID}/checklist/history", h.Checklist.History)

	api.HandleFunc("GET /trips/{tripID}/documents", h.Documents.List)
	api.HandleFunc("POST /trips/{tripID}/documents/{documentID}/download", h.Documents.MarkDownloaded)

	api.HandleFunc("GET /trips/{tripID}/safety-info", h.Safety.Get)

	api.HandleFunc("GET /trips/{tripID}/sos", h.SOS.Status)
	api.HandleFunc("POST /trips/{tripID}/sos/press", h.SOS.Press)
	api.HandleFunc("POST /trips/{tripID}/sos/release", h.SOS.Release)
	api.HandleFunc("POST /trips/{tripID}/sos/disable", h.SOS.Disable)
	api.HandleFunc("POST /trips/{tripID}/sos/enable", h.SOS.Enable)
	api.HandleFunc("POST /trips/{tripID}/alerts", h.SOS.CreateAlert)

	api.HandleFunc("GET /alerts", h.SOS.ListAlerts)
	api.HandleFunc("GET /alerts/active", h.SOS.ListActive)
	api.HandleFunc("GET /alerts/{alertID}", h.SOS.GetAlert)
	api.HandleFunc("POST /alerts/{alertID}/resolve", h.SOS.ResolveAlert)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /health/live", h.Health.Live)
	mux.HandleFunc("GET /health/ready", h.Health.Ready)
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", authMW(api)))

	return mux
}
