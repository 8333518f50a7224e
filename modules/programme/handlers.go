package programme

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

type showInfoResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      string `json:"source"`
	ValidUntil  string `json:"valid_until,omitempty"`
}

type slotResponse struct {
	Start       string `json:"start"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// NowPlayingHandler serves the latest published ShowInfo. Before the first
// refresh cycle it resolves on demand.
func (p *Programme) NowPlayingHandler(w http.ResponseWriter, r *http.Request) {
	info, ok := p.Latest()
	if !ok {
		info = p.NowPlaying(r.Context())
	}

	resp := showInfoResponse{
		Title:       info.Title,
		Description: info.Description,
		Source:      info.Source,
	}
	if !info.ValidUntil.IsZero() {
		resp.ValidUntil = info.ValidUntil.Format(time.RFC3339)
	}

	writeJSON(w, resp, p.logger)
}

// ScheduleHandler serves the cached weekly schedule, days in Monday..Sunday
// order.
func (p *Programme) ScheduleHandler(w http.ResponseWriter, r *http.Request) {
	schedule := p.Schedule(r.Context())

	resp := make(map[string][]slotResponse, len(schedule))
	for _, day := range weekOrder {
		slots, ok := schedule[day]
		if !ok {
			continue
		}
		out := make([]slotResponse, 0, len(slots))
		for _, s := range slots {
			out = append(out, slotResponse{
				Start:       s.Start.String(),
				Title:       s.Title,
				Description: s.Description,
			})
		}
		resp[dayNames[day]] = out
	}

	writeJSON(w, resp, p.logger)
}

func writeJSON(w http.ResponseWriter, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("error writing response", "err", err)
	}
}
