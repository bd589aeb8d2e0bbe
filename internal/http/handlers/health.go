package handlers

import (
	"net/http"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok"}
	if age, ok := a.Service.CacheStatus(); ok {
		body["cacheAgeSeconds"] = int(age.Seconds())
	} else {
		body["cacheAgeSeconds"] = nil
	}
	a.json(w, http.StatusOK, body)
}
