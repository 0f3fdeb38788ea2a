// File: internal/store/store.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"llmgate/internal/domain"
	"llmgate/internal/logging"
)

type gormStore struct {
	path   string
	db     *gorm.DB
	logger logging.Logger
}

// New creates a SQLite-backed store at the given path. The database is
// not touched until Open is called.
func New(path string, logger logging.Logger) Store {
	if logger == nil {
		logger = &logging.NoOpLogger{}
	}
	return &gormStore{path: path, logger: logger}
}

func (s *gormStore) Open(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	db, err := gorm.Open(sqlite.Open(s.path), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&domain.Conversation{}, &domain.Message{}); err != nil {
		return fmt.Errorf("%w: migration failed: %v", ErrStorageUnavailable, err)
	}

	s.db = db
	s.logger.Info("store opened", "path", s.path)
	return nil
}

func (s *gormStore) CreateConversation(ctx context.Context, title, modelID string) (*domain.Conversation, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	now := time.Now().UTC()
	conv := &domain.Conversation{
		ID:        uuid.NewString(),
		Title:     title,
		ModelID:   modelID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.db.WithContext(ctx).Create(conv).Error; err != nil {
		s.logger.Error("failed to create conversation", "error", err)
		return nil, fmt.Errorf("creating conversation: %w", err)
	}

	return conv, nil
}

func (s *gormStore) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	var convs []domain.Conversation
	err := s.db.WithContext(ctx).
		Order("updated_at DESC, id DESC").
		Find(&convs).Error
	if err != nil {
		s.logger.Error("failed to list conversations", "error", err)
		return nil, fmt.Errorf("listing conversations: %w", err)
	}

	return convs, nil
}

func (s *gormStore) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	var conv domain.Conversation
	err := s.db.WithContext(ctx).First(&conv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("failed to get conversation", "id", id, "error", err)
		return nil, fmt.Errorf("getting conversation: %w", err)
	}

	return &conv, nil
}

func (s *gormStore) UpdateConversation(ctx context.Context, id string, fields ConversationUpdate) (*domain.Conversation, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	var conv domain.Conversation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&conv, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		updates := map[string]interface{}{
			"updated_at": time.Now().UTC(),
		}
		if fields.Title != nil {
			updates["title"] = *fields.Title
		}
		if fields.ModelID != nil {
			updates["model_id"] = *fields.ModelID
		}

		return tx.Model(&conv).Updates(updates).Error
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("failed to update conversation", "id", id, "error", err)
		}
		return nil, err
	}

	return &conv, nil
}

func (s *gormStore) DeleteConversation(ctx context.Context, id string) error {
	if s.db == nil {
		return ErrNotOpen
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		// Zero rows affected means the id never existed; delete stays
		// idempotent either way.
		return tx.Where("id = ?", id).Delete(&domain.Conversation{}).Error
	})
	if err != nil {
		s.logger.Error("failed to delete conversation", "id", id, "error", err)
		return fmt.Errorf("deleting conversation: %w", err)
	}

	return nil
}

func (s *gormStore) SaveMessage(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	if msg == nil || msg.ConversationID == "" {
		return nil, errors.New("message requires a conversation id")
	}

	saved := *msg
	saved.ID = uuid.NewString()
	if saved.Timestamp.IsZero() {
		saved.Timestamp = time.Now().UTC()
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&saved).Error; err != nil {
			return err
		}
		// Touch the parent conversation with the message timestamp.
		// UpdateColumn skips gorm's own timestamp tracking so the two
		// values match exactly; zero rows affected means the parent
		// vanished concurrently and the touch is a no-op.
		return tx.Model(&domain.Conversation{}).
			Where("id = ?", saved.ConversationID).
			UpdateColumn("updated_at", saved.Timestamp).Error
	})
	if err != nil {
		s.logger.Error("failed to save message", "conversation_id", msg.ConversationID, "error", err)
		return nil, fmt.Errorf("saving message: %w", err)
	}

	return &saved, nil
}

func (s *gormStore) GetMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	var messages []domain.Message
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("timestamp ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		s.logger.Error("failed to get messages", "conversation_id", conversationID, "error", err)
		return nil, fmt.Errorf("getting messages: %w", err)
	}

	return messages, nil
}

func (s *gormStore) GetMessageCount(ctx context.Context, conversationID string) (int64, error) {
	if s.db == nil {
		return 0, ErrNotOpen
	}

	var count int64
	err := s.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	if err != nil {
		s.logger.Error("failed to count messages", "conversation_id", conversationID, "error", err)
		return 0, fmt.Errorf("counting messages: %w", err)
	}

	return count, nil
}

func (s *gormStore) ClearAll(ctx context.Context) error {
	if s.db == nil {
		return ErrNotOpen
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&domain.Conversation{}).Error
	})
	if err != nil {
		return fmt.Errorf("clearing store: %w", err)
	}

	s.logger.Warn("store cleared")
	return nil
}

func (s *gormStore) Close() error {
	if s.db == nil {
		return nil
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	s.db = nil

	return sqlDB.Close()
}
