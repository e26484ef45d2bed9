package devserver

import (
	"net/http"
	"path/filepath"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wanderlust-travel/wanderlust-go/pkg/api"
	"github.com/wanderlust-travel/wanderlust-go/pkg/validator"
)

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	msgType := api.MessageType(query.Get("type"))
	userID := currentUserID(r)

	s.mu.RLock()
	matched := make([]api.Message, 0)
	for _, m := range s.messages {
		if m.Sender.ID != userID && m.Recipient.ID != userID {
			continue
		}
		if msgType != "" && m.Type != msgType {
			continue
		}
		matched = append(matched, *m)
	}
	s.mu.RUnlock()

	// Newest first, matching the message-center presentation.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	page := paginate(matched, query.Get("page"), query.Get("limit"))
	s.ok(w, http.StatusOK, page)
}

func (s *Server) handleGetMessage(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)

	s.mu.RLock()
	msg, found := s.messages[chi.URLParam(r, "id")]
	var copied api.Message
	if found && (msg.Sender.ID == userID || msg.Recipient.ID == userID) {
		copied = *msg
	} else {
		found = false
	}
	s.mu.RUnlock()

	if !found {
		s.fail(w, http.StatusNotFound, "message not found")
		return
	}
	s.ok(w, http.StatusOK, copied)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req api.SendMessageParams
	if !s.decode(w, r, &req) {
		return
	}

	if err := validator.Apply(
		validator.Required("subject", req.Subject),
		validator.MaxLen("subject", req.Subject, 200),
		validator.Required("content", req.Content),
		validator.InList("type", req.Type, []api.MessageType{api.MessageTypeInquiry, api.MessageTypeReply}),
	); err != nil {
		s.fail(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	sender := s.currentAccountLocked(r).user

	var recipient api.User
	var hotel *api.Hotel

	switch {
	case req.ParentMessageID != "":
		parent, found := s.messages[req.ParentMessageID]
		if !found || (parent.Sender.ID != sender.ID && parent.Recipient.ID != sender.ID) {
			s.mu.Unlock()
			s.fail(w, http.StatusBadRequest, "unknown parent message")
			return
		}
		// A reply goes back to the other party of the thread.
		if parent.Sender.ID == sender.ID {
			recipient = parent.Recipient
		} else {
			recipient = parent.Sender
		}
		hotel = parent.Hotel
	case req.HotelID != "":
		h, found := s.hotels[req.HotelID]
		if !found {
			s.mu.Unlock()
			s.fail(w, http.StatusBadRequest, "unknown hotel")
			return
		}
		owner, found := s.users[s.hotelOwners[req.HotelID]]
		if !found {
			s.mu.Unlock()
			s.fail(w, http.StatusBadRequest, "hotel has no operator")
			return
		}
		hotelCopy := *h
		hotel = &hotelCopy
		recipient = owner.user
	default:
		s.mu.Unlock()
		s.fail(w, http.StatusBadRequest, "either hotelId or parentMessageId is required")
		return
	}

	now := s.now()
	msg := &api.Message{
		ID:              uuid.NewString(),
		Sender:          sender,
		Recipient:       recipient,
		Hotel:           hotel,
		Subject:         req.Subject,
		Content:         req.Content,
		Type:            req.Type,
		ParentMessageID: req.ParentMessageID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.messages[msg.ID] = msg
	copied := *msg
	s.mu.Unlock()

	s.ok(w, http.StatusCreated, copied)
}

func (s *Server) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)

	s.mu.Lock()
	id := chi.URLParam(r, "id")
	msg, found := s.messages[id]
	if !found || (msg.Sender.ID != userID && msg.Recipient.ID != userID) {
		s.mu.Unlock()
		s.fail(w, http.StatusNotFound, "message not found")
		return
	}
	delete(s.messages, id)
	s.mu.Unlock()

	s.ok(w, http.StatusOK, struct{}{})
}

const maxUploadBytes = 10 << 20

func (s *Server) handleUploadProfilePhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		s.fail(w, http.StatusBadRequest, "photo field is required")
		return
	}
	defer func() { _ = file.Close() }()

	// The dev server does not keep the bytes; it only assigns the reference.
	photoPath := "/uploads/" + uuid.NewString() + filepath.Ext(header.Filename)

	s.mu.Lock()
	acct := s.currentAccountLocked(r)
	acct.user.ProfilePhoto = photoPath
	acct.user.UpdatedAt = s.now()
	s.mu.Unlock()

	s.ok(w, http.StatusOK, api.ProfilePhoto{ProfilePhoto: photoPath})
}
