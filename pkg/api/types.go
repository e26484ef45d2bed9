package api

import "time"

// Role identifies the capability level of an account.
type Role string

const (
	// RoleStandard is a regular traveler account.
	RoleStandard Role = "standard"
	// RoleOperator is a hotel operator account with administrative access.
	RoleOperator Role = "operator"
)

// Valid reports whether the role is one the service recognizes.
func (r Role) Valid() bool {
	return r == RoleStandard || r == RoleOperator
}

// User is the service-owned identity record. The client only ever holds a
// cached copy; the remote service is the source of truth.
type User struct {
	ID           string    `json:"_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	ProfilePhoto string    `json:"profilePhoto,omitempty"`
	Favorites    []string  `json:"favorites"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasFavorite reports whether the hotel id is in the user's favorites set.
func (u *User) HasFavorite(hotelID string) bool {
	if u == nil {
		return false
	}
	for _, id := range u.Favorites {
		if id == hotelID {
			return true
		}
	}
	return false
}

// Hotel is a bookable property listing.
type Hotel struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Price       float64   `json:"price"`
	Rating      float64   `json:"rating"`
	Amenities   []string  `json:"amenities"`
	Images      []string  `json:"images"`
	IsAvailable bool      `json:"isAvailable"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MessageType classifies entries in the message center.
type MessageType string

const (
	MessageTypeInquiry      MessageType = "inquiry"
	MessageTypeReply        MessageType = "reply"
	MessageTypeNotification MessageType = "notification"
)

// Message is a message-center entry between a traveler and an operator.
type Message struct {
	ID              string      `json:"_id"`
	Sender          User        `json:"sender"`
	Recipient       User        `json:"recipient"`
	Hotel           *Hotel      `json:"hotel,omitempty"`
	Subject         string      `json:"subject"`
	Content         string      `json:"content"`
	Type            MessageType `json:"type"`
	ParentMessageID string      `json:"parentMessageId,omitempty"`
	IsRead          bool        `json:"isRead"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// AuthPayload is returned by the login and register endpoints.
type AuthPayload struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// ProfilePhoto is returned by the profile-photo upload endpoint.
type ProfilePhoto struct {
	ProfilePhoto string `json:"profilePhoto"`
}

// Pagination describes the window of a paginated listing.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Envelope is the uniform response wrapper every endpoint uses.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RegisterParams is the payload for account registration.
type RegisterParams struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Role       Role   `json:"role"`
	SignupCode string `json:"signupCode,omitempty"`
}

// UpdateProfileParams carries the mutable profile fields. Zero-valued fields
// are omitted so the server leaves them untouched.
type UpdateProfileParams struct {
	Name         string `json:"name,omitempty"`
	ProfilePhoto string `json:"profilePhoto,omitempty"`
}

// HotelFilter narrows and paginates the hotel listing. Zero values mean "no
// constraint"; price bounds are pointers so zero is expressible.
type HotelFilter struct {
	Search   string
	Location string
	MinPrice *float64
	MaxPrice *float64
	Page     int
	Limit    int
}

// HotelParams is the payload for creating or updating a hotel.
type HotelParams struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Price       float64  `json:"price"`
	Rating      float64  `json:"rating,omitempty"`
	Amenities   []string `json:"amenities,omitempty"`
	Images      []string `json:"images,omitempty"`
	IsAvailable bool     `json:"isAvailable"`
}

// MessageFilter narrows and paginates the message listing.
type MessageFilter struct {
	Type  MessageType
	Page  int
	Limit int
}

// SendMessageParams is the payload for sending a message.
type SendMessageParams struct {
	HotelID         string      `json:"hotelId,omitempty"`
	Subject         string      `json:"subject"`
	Content         string      `json:"content"`
	Type            MessageType `json:"type"`
	ParentMessageID string      `json:"parentMessageId,omitempty"`
}
