package devserver

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wanderlust-travel/wanderlust-go/pkg/api"
)

// SeedAccount creates an account directly, bypassing the signup-code check.
// Returns the created user. Used by SeedDemoData and by tests that need an
// existing account without going through the register endpoint.
func (s *Server) SeedAccount(email, password, name string, role api.Role) (api.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return api.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	emailKey := strings.ToLower(email)
	if _, exists := s.emails[emailKey]; exists {
		return api.User{}, fmt.Errorf("devserver: account %q already exists", email)
	}

	now := s.now()
	acct := &account{
		user: api.User{
			ID:        uuid.NewString(),
			Email:     email,
			Name:      name,
			Role:      role,
			Favorites: []string{},
			CreatedAt: now,
			UpdatedAt: now,
		},
		passwordHash: hash,
	}
	s.users[acct.user.ID] = acct
	s.emails[emailKey] = acct.user.ID
	return acct.user, nil
}

// SeedHotel creates a listing owned by the given operator account.
func (s *Server) SeedHotel(ownerID string, params api.HotelParams) (api.Hotel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, found := s.users[ownerID]
	if !found || owner.user.Role != api.RoleOperator {
		return api.Hotel{}, fmt.Errorf("devserver: owner %q is not an operator", ownerID)
	}

	now := s.now()
	hotel := &api.Hotel{
		ID:          uuid.NewString(),
		Name:        params.Name,
		Description: params.Description,
		Location:    params.Location,
		Price:       params.Price,
		Rating:      params.Rating,
		Amenities:   params.Amenities,
		Images:      params.Images,
		IsAvailable: params.IsAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.hotels[hotel.ID] = hotel
	s.hotelOwners[hotel.ID] = ownerID
	return *hotel, nil
}

// SeedDemoData loads a small fixture set for local development: one operator
// (operator@wanderlust.dev / wanderlust), one traveler
// (traveler@wanderlust.dev / wanderlust) and a few hotels.
func (s *Server) SeedDemoData() error {
	operator, err := s.SeedAccount("operator@wanderlust.dev", "wanderlust", "Demo Operator", api.RoleOperator)
	if err != nil {
		return err
	}
	if _, err := s.SeedAccount("traveler@wanderlust.dev", "wanderlust", "Demo Traveler", api.RoleStandard); err != nil {
		return err
	}

	hotels := []api.HotelParams{
		{
			Name:        "Harborview Grand",
			Description: "Waterfront rooms with a view of the old harbor.",
			Location:    "Lisbon",
			Price:       180,
			Rating:      4.6,
			Amenities:   []string{"wifi", "pool", "breakfast"},
			IsAvailable: true,
		},
		{
			Name:        "Alpine Meadow Lodge",
			Description: "Quiet chalet at the foot of the ski lifts.",
			Location:    "Innsbruck",
			Price:       240,
			Rating:      4.8,
			Amenities:   []string{"wifi", "sauna", "parking"},
			IsAvailable: true,
		},
		{
			Name:        "City Garden Inn",
			Description: "Budget stay next to the botanical gardens.",
			Location:    "Lisbon",
			Price:       95,
			Rating:      4.1,
			Amenities:   []string{"wifi"},
			IsAvailable: true,
		},
	}
	for _, h := range hotels {
		if _, err := s.SeedHotel(operator.ID, h); err != nil {
			return err
		}
	}
	return nil
}
