package rest

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/summitpath/summitpath-backend/pkg/ctxutil"
)

// testRouter builds the full routing table with an auth stub that injects
// userID into every request. userID == uuid.Nil simulates an anonymous
// request slipping past auth.
func testRouter(userID uuid.UUID, h Handlers) http.Handler {
	if h.Health == nil {
		h.Health = NewHealthHandler(&dbPingerMock{}, "test")
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if h.Checklist == nil {
		h.Checklist = NewChecklistHandler(&checklistServiceMock{}, log)
	}
	if h.Documents == nil {
		h.Documents = NewDocumentsHandler(&documentsServiceMock{}, log)
	}
	if h.SOS == nil {
		h.SOS = NewSOSHandler(&sosServiceMock{}, log)
	}
	if h.Safety == nil {
		h.Safety = NewSafetyHandler(&safetyServiceMock{}, log)
	}

	authMW := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if userID != uuid.Nil {
				ctx = ctxutil.WithUserID(ctx, userID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}

	return NewRouter(h, authMW)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
