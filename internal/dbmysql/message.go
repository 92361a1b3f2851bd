package dbmysql

import (
	"time"
)

// Message is a single direct message between two users. ID and CreatedAt
// are assigned by the store on insert and are authoritative; clients never
// supply either.
type Message struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID   uint64    `gorm:"index:idx_messages_sender;not null" json:"sender_id"`
	ReceiverID uint64    `gorm:"index:idx_messages_receiver;not null" json:"receiver_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Read       bool      `gorm:"not null" json:"read"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
