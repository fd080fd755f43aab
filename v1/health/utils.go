package health

import (
	"encoding/json"
	"net/http"
)

// Handler serves the result of RunAll as JSON: 200 when every check is
// healthy, 503 otherwise.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		report := r.RunAll(req.Context())

		w.Header().Set("Content-Type", "application/json")
		if report.Healthy {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		if err := json.NewEncoder(w).Encode(report); err != nil {
			r.log.Error("Cannot write health report", err, nil)
		}
	})
}
