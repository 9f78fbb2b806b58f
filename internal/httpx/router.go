// Package httpx exposes the dashboard aggregates as a JSON API.
package httpx

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"adsdash/internal/core"
	"adsdash/internal/dashboard"
)

// DefaultWindowDays is the period served when no bounds are given.
const DefaultWindowDays = 30

// NewRouter builds the full route tree over the dashboard service.
func NewRouter(log *slog.Logger, svc *dashboard.Service) http.Handler {
	mux := chi.NewRouter()
	mux.Use(RequestID)
	mux.Use(Logger(log))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/api", func(api chi.Router) {
		api.Get("/overview", func(w http.ResponseWriter, r *http.Request) {
			p, err := periodFromQuery(r)
			if err != nil {
				http.Error(w, err.Error(), 400)
				return
			}
			o, err := svc.Overview(r.Context(), p)
			if err != nil {
				http.Error(w, err.Error(), 502)
				return
			}
			writeJSON(w, o)
		})

		api.Get("/funnel", func(w http.ResponseWriter, r *http.Request) {
			p, err := periodFromQuery(r)
			if err != nil {
				http.Error(w, err.Error(), 400)
				return
			}
			f, err := svc.Funnel(r.Context(), p)
			if err != nil {
				http.Error(w, err.Error(), 502)
				return
			}
			writeJSON(w, f)
		})

		api.Get("/monthly", func(w http.ResponseWriter, r *http.Request) {
			p, err := periodFromQuery(r)
			if err != nil {
				http.Error(w, err.Error(), 400)
				return
			}
			rows, err := svc.Monthly(r.Context(), p)
			if err != nil {
				http.Error(w, err.Error(), 502)
				return
			}
			writeJSON(w, rows)
		})

		api.Get("/campaigns", func(w http.ResponseWriter, r *http.Request) {
			p, err := periodFromQuery(r)
			if err != nil {
				http.Error(w, err.Error(), 400)
				return
			}
			platform, err := platformFromQuery(r)
			if err != nil {
				http.Error(w, err.Error(), 400)
				return
			}
			rows, err := svc.Campaigns(r.Context(), p, platform)
			if err != nil {
				http.Error(w, err.Error(), 502)
				return
			}
			writeJSON(w, rows)
		})

		api.Get("/adsets", func(w http.ResponseWriter, r *http.Request) {
			p, err := periodFromQuery(r)
			if err != nil {
				http.Error(w, err.Error(), 400)
				return
			}
			rows, err := svc.AdSets(r.Context(), p)
			if err != nil {
				http.Error(w, err.Error(), 502)
				return
			}
			writeJSON(w, rows)
		})

		api.Get("/leads", func(w http.ResponseWriter, r *http.Request) {
			p, err := periodFromQuery(r)
			if err != nil {
				http.Error(w, err.Error(), 400)
				return
			}
			v, err := svc.Leads(r.Context(), p)
			if err != nil {
				http.Error(w, err.Error(), 502)
				return
			}
			writeJSON(w, v)
		})
	})

	return mux
}

// periodFromQuery reads start and end (YYYY-MM-DD), defaulting to the
// trailing DefaultWindowDays window ending today.
func periodFromQuery(r *http.Request) (core.Period, error) {
	now := time.Now().UTC()
	start := now.AddDate(0, 0, -DefaultWindowDays)
	end := now

	if q := r.URL.Query().Get("start"); q != "" {
		t, err := time.Parse("2006-01-02", q)
		if err != nil {
			return core.Period{}, errBadParam("start")
		}
		start = t
	}
	if q := r.URL.Query().Get("end"); q != "" {
		t, err := time.Parse("2006-01-02", q)
		if err != nil {
			return core.Period{}, errBadParam("end")
		}
		end = t
	}
	p := core.NewPeriod(start, end)
	if p.End.Before(p.Start) {
		return core.Period{}, errBadParam("end before start")
	}
	return p, nil
}

func platformFromQuery(r *http.Request) (core.Platform, error) {
	switch r.URL.Query().Get("platform") {
	case "":
		return "", nil
	case "meta":
		return core.MetaAds, nil
	case "google":
		return core.GoogleAds, nil
	default:
		return "", errBadParam("platform (want meta or google)")
	}
}

func errBadParam(name string) error {
	return fmt.Errorf("invalid query parameter: %s", name)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
