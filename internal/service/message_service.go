package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marine-backend/internal/model"
	"marine-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageResponse struct {
	ID            string `json:"id"`
	Code          string `json:"code"`
	Inbox         string `json:"inbox"`
	Sender        string `json:"sender"`
	SenderEmail   string `json:"sender_email"`
	Subject       string `json:"subject"`
	Body          string `json:"body"`
	Date          string `json:"date"`
	IsRead        bool   `json:"is_read"`
	HasAttachment bool   `json:"has_attachment"`
}

type MessageService interface {
	GetMessage(ctx context.Context, id string) (MessageResponse, error)
	ListMessages(ctx context.Context, inbox string, page, limit int) ([]MessageResponse, int64, error)
	MarkRead(ctx context.Context, id string) error
	UnreadCount(ctx context.Context) (int64, error)
}

type messageService struct {
	messageRepo repository.MessageRepository
}

func NewMessageService(messageRepo repository.MessageRepository) MessageService {
	return &messageService{messageRepo: messageRepo}
}

func (s *messageService) GetMessage(ctx context.Context, id string) (MessageResponse, error) {
	messageID, err := uuid.Parse(id)
	if err != nil {
		return MessageResponse{}, fmt.Errorf("invalid message id: %w", err)
	}
	msg, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MessageResponse{}, errors.New("message not found")
		}
		return MessageResponse{}, fmt.Errorf("failed to look up message: %w", err)
	}
	return toMessageResponse(*msg), nil
}

func (s *messageService) ListMessages(ctx context.Context, inbox string, page, limit int) ([]MessageResponse, int64, error) {
	if inbox != "" && inbox != model.InboxSales && inbox != model.InboxInfo {
		return nil, 0, fmt.Errorf("unknown inbox %q", inbox)
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	messages, total, err := s.messageRepo.List(ctx, inbox, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch messages: %w", err)
	}

	result := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		result = append(result, toMessageResponse(m))
	}
	return result, total, nil
}

func (s *messageService) MarkRead(ctx context.Context, id string) error {
	messageID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid message id: %w", err)
	}
	if err := s.messageRepo.MarkRead(ctx, messageID); err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	return nil
}

func (s *messageService) UnreadCount(ctx context.Context) (int64, error) {
	return s.messageRepo.CountUnread(ctx)
}

func toMessageResponse(m model.Message) MessageResponse {
	return MessageResponse{
		ID:            m.ID.String(),
		Code:          m.Code,
		Inbox:         m.Inbox,
		Sender:        m.Sender,
		SenderEmail:   m.SenderEmail,
		Subject:       m.Subject,
		Body:          m.Body,
		Date:          m.Date.Format(time.RFC3339),
		IsRead:        m.IsRead,
		HasAttachment: m.HasAttachment,
	}
}
