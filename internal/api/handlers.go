package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"
)

type CreateInput struct {
	Description string `json:"description"`
}

type CreateOutput struct {
	ID uint32 `json:"id"`
}

type UpdateStatusInput struct {
	Done *bool `json:"done"`
}

type UpdateDescriptionInput struct {
	Description *string `json:"description"`
}

type Result struct {
	Success bool `json:"success"`
}

func (app *App) list() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		writeJSON(w, http.StatusOK, app.store.List())
	}
}

func (app *App) create() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		var input CreateInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			http.Error(w, "Bad request.", http.StatusBadRequest)
			return
		}

		id := app.store.Create(input.Description)

		writeJSON(w, http.StatusCreated, &CreateOutput{ID: id})
	}
}

func (app *App) read() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		id, ok := parseID(w, p)
		if !ok {
			return
		}

		item, found := app.store.Read(id)
		if !found {
			writeJSON(w, http.StatusNotFound, &Result{Success: false})
			return
		}

		writeJSON(w, http.StatusOK, item)
	}
}

func (app *App) updateStatus() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		id, ok := parseID(w, p)
		if !ok {
			return
		}

		var input UpdateStatusInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Done == nil {
			http.Error(w, "Bad request.", http.StatusBadRequest)
			return
		}

		writeResult(w, app.store.UpdateStatus(id, *input.Done))
	}
}

func (app *App) updateDescription() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		id, ok := parseID(w, p)
		if !ok {
			return
		}

		var input UpdateDescriptionInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Description == nil {
			http.Error(w, "Bad request.", http.StatusBadRequest)
			return
		}

		writeResult(w, app.store.UpdateDescription(id, *input.Description))
	}
}

func (app *App) delete() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		id, ok := parseID(w, p)
		if !ok {
			return
		}

		writeResult(w, app.store.Delete(id))
	}
}

func parseID(w http.ResponseWriter, p httprouter.Params) (uint32, bool) {
	id, err := strconv.ParseUint(p.ByName("id"), 10, 32)
	if err != nil {
		http.Error(w, "Bad request.", http.StatusBadRequest)
		return 0, false
	}

	return uint32(id), true
}

// writeResult maps a store success flag to 200 or 404.
func writeResult(w http.ResponseWriter, success bool) {
	status := http.StatusOK
	if !success {
		status = http.StatusNotFound
	}

	writeJSON(w, status, &Result{Success: success})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("failed to write response")
	}
}
