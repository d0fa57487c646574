package services

import (
	"log"
	"strings"
	"sync"
	"time"

	"storefront/internal/models"
	"storefront/internal/store"

	"github.com/google/uuid"
)

// Chat identities.
const (
	GuestSenderID  = "guest"
	SystemSenderID = "system"
	AutoReplyText  = "Thanks for your message! Our team will get back to you shortly."
)

// ChatService is the mock support chat. Every customer message is answered
// by a canned reply after a fixed delay.
type ChatService struct {
	store      *store.Store
	replyDelay time.Duration
	pending    sync.WaitGroup
}

// NewChatService creates a new ChatService.
func NewChatService(st *store.Store, replyDelay time.Duration) *ChatService {
	return &ChatService{
		store:      st,
		replyDelay: replyDelay,
	}
}

// Messages returns the conversation in send order.
func (s *ChatService) Messages() []models.Message {
	return s.store.State().Messages
}

// Send posts a customer message and schedules the auto-reply.
func (s *ChatService) Send(text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fieldError("text", "Message cannot be empty")
	}

	sender := GuestSenderID
	if u := s.store.State().User; u != nil {
		sender = u.ID
	}
	msg := models.Message{
		ID:        uuid.New().String(),
		SenderID:  sender,
		Text:      text,
		Timestamp: time.Now(),
	}
	if err := s.store.Dispatch(store.SendMessage{Message: msg}); err != nil {
		return nil, err
	}

	s.pending.Add(1)
	time.AfterFunc(s.replyDelay, func() {
		defer s.pending.Done()
		reply := models.Message{
			ID:        uuid.New().String(),
			SenderID:  SystemSenderID,
			Text:      AutoReplyText,
			Timestamp: time.Now(),
			IsAdmin:   true,
		}
		if err := s.store.Dispatch(store.SendMessage{Message: reply}); err != nil {
			log.Printf("Failed to send auto-reply: %v", err)
		}
	})
	return &msg, nil
}

// Wait blocks until every scheduled auto-reply has been delivered.
func (s *ChatService) Wait() {
	s.pending.Wait()
}
