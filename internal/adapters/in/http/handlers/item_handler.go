// internal/adapters/in/http/handlers/item_handler.go
package handlers

import (
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"

	usecase "drip/internal/application/usecase"
	itemdom "drip/internal/domain/item"

	"drip/internal/adapters/in/http/middleware"
)

const maxUploadBytes = 32 << 20

// ItemHandler serves the listing catalog plus the submission pipeline.
//
//	GET    /items            catalog (q= keyword search, mine=true for own drafts)
//	POST   /items            multipart submission (price, parcelSize, image_N)
//	GET    /items/{id}
//	PUT    /items/{id}
//	DELETE /items/{id}
type ItemHandler struct {
	items    *usecase.ItemUsecase
	listings *usecase.ListingUsecase
}

func NewItemHandler(items *usecase.ItemUsecase, listings *usecase.ListingUsecase) http.Handler {
	return &ItemHandler{items: items, listings: listings}
}

func (h *ItemHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.items == nil || h.listings == nil {
		writeErr(w, http.StatusInternalServerError, "item handler is not configured")
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")
	if path == "" {
		path = "/"
	}

	id := trailingID(path, "/items")

	switch {
	case r.Method == http.MethodGet && id == "":
		h.handleList(w, r)
	case r.Method == http.MethodPost && id == "":
		h.handleSubmit(w, r)
	case r.Method == http.MethodGet && id != "":
		h.handleGet(w, r, id)
	case r.Method == http.MethodPut && id != "":
		h.handleUpdate(w, r, id)
	case r.Method == http.MethodDelete && id != "":
		h.handleDelete(w, r, id)
	default:
		methodNotAllowed(w)
	}
}

func (h *ItemHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		items, err := h.items.Search(ctx, q)
		if err != nil {
			writeUsecaseErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
		return
	}

	if strings.EqualFold(r.URL.Query().Get("mine"), "true") {
		uid, ok := middleware.CurrentUID(r)
		if !ok {
			writeErr(w, http.StatusUnauthorized, "sign-in required")
			return
		}
		items, err := h.items.ListByOwner(ctx, uid)
		if err != nil {
			writeUsecaseErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
		return
	}

	items, err := h.items.ListCatalog(ctx)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	it, err := h.items.Get(r.Context(), id)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// handleSubmit accepts a multipart form with price, parcelSize, and image
// parts named image_0, image_1, ... The part index fixes the display order.
func (h *ItemHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.CurrentUID(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "sign-in required")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	images, err := readIndexedImages(r.MultipartForm)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	it, err := h.listings.Submit(r.Context(), usecase.SubmitInput{
		OwnerID:    uid,
		Price:      strings.TrimSpace(r.FormValue("price")),
		ParcelSize: strings.TrimSpace(r.FormValue("parcelSize")),
		Images:     images,
	})
	if err != nil {
		log.Printf("[item_handler] submit failed owner=%s err=%v", uid, err)
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (h *ItemHandler) handleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	uid, ok := middleware.CurrentUID(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "sign-in required")
		return
	}

	var body itemdom.Item
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	body.ID = id

	updated, err := h.items.Update(r.Context(), uid, &body)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ItemHandler) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	uid, ok := middleware.CurrentUID(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "sign-in required")
		return
	}

	if err := h.items.Delete(r.Context(), uid, id); err != nil {
		writeUsecaseErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// readIndexedImages collects image_N parts sorted by N.
func readIndexedImages(form *multipart.Form) ([][]byte, error) {
	if form == nil {
		return nil, nil
	}

	type slot struct {
		index int
		data  []byte
	}
	var slots []slot

	for name, headers := range form.File {
		if !strings.HasPrefix(name, "image_") || len(headers) == 0 {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimPrefix(name, "image_"))
		if err != nil || idx < 0 {
			continue
		}

		f, err := headers[0].Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot{index: idx, data: data})
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].index < slots[j].index })

	out := make([][]byte, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.data)
	}
	return out, nil
}
