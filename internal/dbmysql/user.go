package dbmysql

import (
	"time"
)

// User rows are owned by the identity service; the messaging core only
// reads them to resolve sender/receiver identities and conversation
// partner handles.
type User struct {
	UserID    uint64    `gorm:"primaryKey;column:user_id;autoIncrement" json:"user_id"`
	Handle    string    `gorm:"column:handle;uniqueIndex;size:50;not null" json:"handle"`
	Status    string    `gorm:"column:status;type:enum('active','banned','deleted');default:'active'" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
