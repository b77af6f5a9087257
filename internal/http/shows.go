package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/streamvault/streamvault/internal/domain"
	"github.com/streamvault/streamvault/internal/service"
	"github.com/streamvault/streamvault/internal/store"
	"github.com/streamvault/streamvault/pkg/httpx"
)

// ShowsHandler serves the catalog CRUD endpoints. Every route sits behind
// authentication and the ROLE_USER guard, so the actor is always present.
type ShowsHandler struct {
	ShowsService *service.ShowsService
}

type showRequest struct {
	ShowType    string `json:"showType"`
	Title       string `json:"title"`
	Director    string `json:"director"`
	CastMembers string `json:"castMembers"`
	Country     string `json:"country"`
	DateAdded   string `json:"dateAdded"`
	ReleaseYear int    `json:"releaseYear"`
	Rating      string `json:"rating"`
	Duration    string `json:"duration"`
	ListedIn    string `json:"listedIn"`
	Description string `json:"description"`
}

type showResponse struct {
	ID          int64  `json:"id"`
	ShowType    string `json:"showType"`
	Title       string `json:"title"`
	Director    string `json:"director"`
	CastMembers string `json:"castMembers"`
	Country     string `json:"country"`
	DateAdded   string `json:"dateAdded,omitempty"`
	ReleaseYear int    `json:"releaseYear"`
	Rating      string `json:"rating"`
	Duration    string `json:"duration"`
	ListedIn    string `json:"listedIn"`
	Description string `json:"description"`
	CreatedBy   string `json:"createdBy"`
	CreatedAt   string `json:"createdAt"`
	UpdatedBy   string `json:"updatedBy,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

func (req showRequest) toDomain() (domain.Show, error) {
	sh := domain.Show{
		ShowType:    domain.ShowType(req.ShowType),
		Title:       req.Title,
		Director:    req.Director,
		CastMembers: req.CastMembers,
		Country:     req.Country,
		ReleaseYear: req.ReleaseYear,
		Rating:      req.Rating,
		Duration:    req.Duration,
		ListedIn:    req.ListedIn,
		Description: req.Description,
	}
	if req.DateAdded != "" {
		added, err := time.Parse(httpx.InstantLayout, req.DateAdded)
		if err != nil {
			return domain.Show{}, err
		}
		sh.DateAdded = &added
	}
	return sh, nil
}

func toShowResponse(sh domain.Show) showResponse {
	resp := showResponse{
		ID:          sh.ID,
		ShowType:    string(sh.ShowType),
		Title:       sh.Title,
		Director:    sh.Director,
		CastMembers: sh.CastMembers,
		Country:     sh.Country,
		ReleaseYear: sh.ReleaseYear,
		Rating:      sh.Rating,
		Duration:    sh.Duration,
		ListedIn:    sh.ListedIn,
		Description: sh.Description,
		CreatedBy:   sh.CreatedBy,
		CreatedAt:   httpx.Instant(sh.CreatedAt),
		UpdatedBy:   sh.UpdatedBy,
	}
	if sh.DateAdded != nil {
		resp.DateAdded = httpx.Instant(*sh.DateAdded)
	}
	if sh.UpdatedAt != nil {
		resp.UpdatedAt = httpx.Instant(*sh.UpdatedAt)
	}
	return resp
}

// HandleList returns all live catalog entries. An empty catalog is a 404,
// not an empty list.
func (h *ShowsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	shows, err := h.ShowsService.List(r.Context())
	if err != nil {
		httpx.Fail(w, r, http.StatusInternalServerError,
			"Internal Server Error", "Unable to process the request")
		return
	}
	if len(shows) == 0 {
		httpx.Fail(w, r, http.StatusNotFound, "Not Found", "Record not found")
		return
	}

	out := make([]showResponse, 0, len(shows))
	for _, sh := range shows {
		out = append(out, toShowResponse(sh))
	}
	httpx.OK(w, r, "Shows retrieved successfully", out)
}

func (h *ShowsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	sh, err := h.ShowsService.Get(r.Context(), id)
	if err != nil {
		h.writeShowFailure(w, r, err)
		return
	}
	httpx.OK(w, r, "Show retrieved successfully", toShowResponse(sh))
}

func (h *ShowsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req showRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, r, http.StatusBadRequest, "Invalid Request", "Malformed request body")
		return
	}

	sh, err := req.toDomain()
	if err != nil {
		httpx.Fail(w, r, http.StatusBadRequest, "Invalid Request", "dateAdded must match "+httpx.InstantLayout)
		return
	}

	created, err := h.ShowsService.Create(r.Context(), sh, httpx.UsernameFromCtx(r.Context()))
	if err != nil {
		h.writeShowFailure(w, r, err)
		return
	}
	httpx.Created(w, r, "Show created successfully", toShowResponse(created))
}

func (h *ShowsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req showRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, r, http.StatusBadRequest, "Invalid Request", "Malformed request body")
		return
	}

	sh, err := req.toDomain()
	if err != nil {
		httpx.Fail(w, r, http.StatusBadRequest, "Invalid Request", "dateAdded must match "+httpx.InstantLayout)
		return
	}

	updated, err := h.ShowsService.Update(r.Context(), id, sh, httpx.UsernameFromCtx(r.Context()))
	if err != nil {
		h.writeShowFailure(w, r, err)
		return
	}
	httpx.OK(w, r, "Show updated successfully", toShowResponse(updated))
}

func (h *ShowsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.ShowsService.Delete(r.Context(), id, httpx.UsernameFromCtx(r.Context())); err != nil {
		h.writeShowFailure(w, r, err)
		return
	}
	httpx.OK(w, r, "Show deleted successfully", nil)
}

func (h *ShowsHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Fail(w, r, http.StatusBadRequest, "Invalid Request", "Show id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (h *ShowsHandler) writeShowFailure(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.Fail(w, r, http.StatusNotFound, "Not Found", "Record not found")
	case errors.Is(err, service.ErrInvalidShow):
		httpx.Fail(w, r, http.StatusBadRequest, "Invalid Request", "Show title is required")
	default:
		httpx.Fail(w, r, http.StatusInternalServerError,
			"Internal Server Error", "Unable to process the request")
	}
}
