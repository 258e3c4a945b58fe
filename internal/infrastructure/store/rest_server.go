package store

import (
	"encoding/json"
	"errors"
	"net/http"

	"klinik-sentosa/internal/domain/entity"
	"klinik-sentosa/internal/domain/repository"
	"klinik-sentosa/pkg/response"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// RESTHandler serves a RecordStore over HTTP with the same routes and
// payloads RESTStore expects, so the service can run against a local data
// backend backed by memory or postgres.
type RESTHandler struct {
	store repository.RecordStore
	log   *logrus.Logger
}

func NewRESTHandler(store repository.RecordStore, log *logrus.Logger) http.Handler {
	h := &RESTHandler{store: store, log: log}

	r := mux.NewRouter()
	r.HandleFunc("/{collection}", h.List).Methods(http.MethodGet)
	r.HandleFunc("/{collection}", h.Insert).Methods(http.MethodPost)
	r.HandleFunc("/{collection}/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/{collection}/{id}", h.Patch).Methods(http.MethodPatch)
	r.HandleFunc("/{collection}/{id}", h.Delete).Methods(http.MethodDelete)
	return r
}

func (h *RESTHandler) collection(w http.ResponseWriter, r *http.Request) (entity.Collection, bool) {
	c := entity.Collection(mux.Vars(r)["collection"])
	if _, err := entity.NewRecord(c); err != nil {
		response.JSON(w, http.StatusNotFound, map[string]string{})
		return "", false
	}
	return c, true
}

func (h *RESTHandler) List(w http.ResponseWriter, r *http.Request) {
	c, ok := h.collection(w, r)
	if !ok {
		return
	}

	out, _ := entity.NewRecordList(c)
	query := r.URL.Query()

	filter := make(map[string]string)
	for key := range query {
		if key == "_sort" || key == "_order" {
			continue
		}
		filter[key] = query.Get(key)
	}

	var err error
	if len(filter) > 0 {
		err = h.store.FindBy(r.Context(), c, filter, out)
	} else {
		var opts []repository.ListOption
		if field := query.Get("_sort"); field != "" {
			if query.Get("_order") == "desc" {
				opts = append(opts, repository.SortByDesc(field))
			} else {
				opts = append(opts, repository.SortBy(field))
			}
		}
		err = h.store.List(r.Context(), c, out, opts...)
	}
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, out)
}

func (h *RESTHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.collection(w, r)
	if !ok {
		return
	}

	rec, err := h.find(r, c, mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, rec)
}

func (h *RESTHandler) Insert(w http.ResponseWriter, r *http.Request) {
	c, ok := h.collection(w, r)
	if !ok {
		return
	}

	rec, _ := entity.NewRecord(c)
	if err := json.NewDecoder(r.Body).Decode(rec); err != nil {
		response.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := h.store.Insert(r.Context(), c, rec); err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, rec)
}

func (h *RESTHandler) Patch(w http.ResponseWriter, r *http.Request) {
	c, ok := h.collection(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]

	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		response.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := h.store.Patch(r.Context(), c, id, fields); err != nil {
		h.writeError(w, err)
		return
	}

	rec, err := h.find(r, c, id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, rec)
}

func (h *RESTHandler) Delete(w http.ResponseWriter, r *http.Request) {
	c, ok := h.collection(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), c, mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{})
}

func (h *RESTHandler) find(r *http.Request, c entity.Collection, id string) (interface{}, error) {
	out, _ := entity.NewRecordList(c)
	if err := h.store.FindBy(r.Context(), c, map[string]string{"id": id}, out); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, repository.ErrRecordNotFound
	}
	return records[0], nil
}

func (h *RESTHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrRecordNotFound):
		response.JSON(w, http.StatusNotFound, map[string]string{})
	case errors.Is(err, repository.ErrDuplicateRecord):
		response.JSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		h.log.Warnf("Failed to serve data backend request: %+v", err)
		response.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
