package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"evently/internal/common"
	"evently/internal/dbmysql"
)

// MessageRepository is the durable message store. Messages are append-only;
// the single mutation is the read flag, which only ever flips false -> true.
type MessageRepository interface {
	Append(ctx context.Context, msg *dbmysql.Message) error
	ListBetween(ctx context.Context, userA, userB uint64) ([]*dbmysql.Message, error)
	MarkRead(ctx context.Context, messageID uint64) (*dbmysql.Message, error)
	ListPartners(ctx context.Context, userID uint64) ([]uint64, error)
	UserExists(ctx context.Context, userID uint64) (bool, error)
	UserByID(ctx context.Context, userID uint64) (*dbmysql.User, error)
}

type messageRepo struct {
	db *gorm.DB

	// guards lastStamp so timestamps assigned by this store instance
	// never go backwards, even if the wall clock does
	mu        sync.Mutex
	lastStamp time.Time
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepo{db: db}
}

// Append persists msg, assigning its creation timestamp. The id comes from
// the database on insert. Safe for concurrent use from many connections.
func (r *messageRepo) Append(ctx context.Context, msg *dbmysql.Message) error {
	msg.CreatedAt = r.stamp()
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListBetween returns every message exchanged between the two users, in
// either direction, ordered by creation time then id. Symmetric in its
// arguments.
func (r *messageRepo) ListBetween(ctx context.Context, userA, userB uint64) ([]*dbmysql.Message, error) {
	var messages []*dbmysql.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

// MarkRead flips the read flag. Marking an already-read message is a no-op
// success; a missing id is ErrNotFound.
func (r *messageRepo) MarkRead(ctx context.Context, messageID uint64) (*dbmysql.Message, error) {
	var msg dbmysql.Message
	err := r.db.WithContext(ctx).First(&msg, "id = ?", messageID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	if msg.Read {
		return &msg, nil
	}

	if err := r.db.WithContext(ctx).Model(&msg).Update("read", true).Error; err != nil {
		return nil, err
	}
	msg.Read = true
	return &msg, nil
}

// ListPartners returns the distinct set of users that have exchanged at
// least one message with userID. Order is undefined; summarization sits
// on top of this in the service layer.
func (r *messageRepo) ListPartners(ctx context.Context, userID uint64) ([]uint64, error) {
	var partners []uint64
	err := r.db.WithContext(ctx).
		Raw("SELECT DISTINCT CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END AS partner_id "+
			"FROM `messages` WHERE sender_id = ? OR receiver_id = ?",
			userID, userID, userID).
		Scan(&partners).Error
	return partners, err
}

func (r *messageRepo) UserExists(ctx context.Context, userID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.User{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count > 0, err
}

func (r *messageRepo) UserByID(ctx context.Context, userID uint64) (*dbmysql.User, error) {
	var user dbmysql.User
	err := r.db.WithContext(ctx).First(&user, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *messageRepo) stamp() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if now.Before(r.lastStamp) {
		now = r.lastStamp
	}
	r.lastStamp = now
	return now
}
