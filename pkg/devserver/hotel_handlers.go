package devserver

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wanderlust-travel/wanderlust-go/pkg/api"
	"github.com/wanderlust-travel/wanderlust-go/pkg/validator"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

func (s *Server) handleListHotels(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	search := strings.ToLower(query.Get("search"))
	location := strings.ToLower(query.Get("location"))
	minPrice, hasMin := parseFloat(query.Get("minPrice"))
	maxPrice, hasMax := parseFloat(query.Get("maxPrice"))

	s.mu.RLock()
	matched := make([]api.Hotel, 0, len(s.hotels))
	for _, h := range s.hotels {
		if search != "" &&
			!strings.Contains(strings.ToLower(h.Name), search) &&
			!strings.Contains(strings.ToLower(h.Description), search) {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(h.Location), location) {
			continue
		}
		if hasMin && h.Price < minPrice {
			continue
		}
		if hasMax && h.Price > maxPrice {
			continue
		}
		matched = append(matched, *h)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	page := paginate(matched, query.Get("page"), query.Get("limit"))
	s.ok(w, http.StatusOK, page)
}

func (s *Server) handleGetHotel(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	hotel, found := s.hotels[chi.URLParam(r, "id")]
	var copied api.Hotel
	if found {
		copied = *hotel
	}
	s.mu.RUnlock()

	if !found {
		s.fail(w, http.StatusNotFound, "hotel not found")
		return
	}
	s.ok(w, http.StatusOK, copied)
}

func (s *Server) handleCreateHotel(w http.ResponseWriter, r *http.Request) {
	var req api.HotelParams
	if !s.decode(w, r, &req) {
		return
	}

	if err := validator.Apply(
		validator.Required("name", req.Name),
		validator.Required("location", req.Location),
		validator.MaxLen("name", req.Name, 200),
	); err != nil {
		s.fail(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Price < 0 {
		s.fail(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	s.mu.Lock()
	acct := s.currentAccountLocked(r)
	if acct.user.Role != api.RoleOperator {
		s.mu.Unlock()
		s.fail(w, http.StatusForbidden, "operator role required")
		return
	}

	now := s.now()
	hotel := &api.Hotel{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Price:       req.Price,
		Rating:      req.Rating,
		Amenities:   req.Amenities,
		Images:      req.Images,
		IsAvailable: req.IsAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.hotels[hotel.ID] = hotel
	s.hotelOwners[hotel.ID] = acct.user.ID
	copied := *hotel
	s.mu.Unlock()

	s.ok(w, http.StatusCreated, copied)
}

func (s *Server) handleUpdateHotel(w http.ResponseWriter, r *http.Request) {
	var req api.HotelParams
	if !s.decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	acct := s.currentAccountLocked(r)
	if acct.user.Role != api.RoleOperator {
		s.mu.Unlock()
		s.fail(w, http.StatusForbidden, "operator role required")
		return
	}

	hotel, found := s.hotels[chi.URLParam(r, "id")]
	if !found {
		s.mu.Unlock()
		s.fail(w, http.StatusNotFound, "hotel not found")
		return
	}

	if req.Name != "" {
		hotel.Name = req.Name
	}
	if req.Description != "" {
		hotel.Description = req.Description
	}
	if req.Location != "" {
		hotel.Location = req.Location
	}
	if req.Price > 0 {
		hotel.Price = req.Price
	}
	if req.Rating > 0 {
		hotel.Rating = req.Rating
	}
	if req.Amenities != nil {
		hotel.Amenities = req.Amenities
	}
	if req.Images != nil {
		hotel.Images = req.Images
	}
	hotel.IsAvailable = req.IsAvailable
	hotel.UpdatedAt = s.now()
	copied := *hotel
	s.mu.Unlock()

	s.ok(w, http.StatusOK, copied)
}

func (s *Server) handleDeleteHotel(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	acct := s.currentAccountLocked(r)
	if acct.user.Role != api.RoleOperator {
		s.mu.Unlock()
		s.fail(w, http.StatusForbidden, "operator role required")
		return
	}

	id := chi.URLParam(r, "id")
	if _, found := s.hotels[id]; !found {
		s.mu.Unlock()
		s.fail(w, http.StatusNotFound, "hotel not found")
		return
	}
	delete(s.hotels, id)
	delete(s.hotelOwners, id)
	s.mu.Unlock()

	s.ok(w, http.StatusOK, struct{}{})
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	if _, found := s.hotels[id]; !found {
		s.mu.Unlock()
		s.fail(w, http.StatusNotFound, "hotel not found")
		return
	}

	acct := s.currentAccountLocked(r)
	favorites := acct.user.Favorites[:0:0]
	removed := false
	for _, fav := range acct.user.Favorites {
		if fav == id {
			removed = true
			continue
		}
		favorites = append(favorites, fav)
	}
	if !removed {
		favorites = append(favorites, id)
	}
	if favorites == nil {
		favorites = []string{}
	}
	acct.user.Favorites = favorites
	acct.user.UpdatedAt = s.now()
	user := acct.user
	s.mu.Unlock()

	s.ok(w, http.StatusOK, user)
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// paginate slices the full result set into the requested window.
func paginate[T any](items []T, pageStr, limitStr string) api.Page[T] {
	page, _ := strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(limitStr)
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	total := len(items)
	pages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	window := items[start:end]
	if window == nil {
		window = []T{}
	}

	return api.Page[T]{
		Data: window,
		Pagination: api.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}
}
