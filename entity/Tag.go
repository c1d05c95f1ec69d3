package entity

import "time"

// Tag labels customers (e.g. "birthday", "corporate", "regular").
// Hard-deleted: links in customer_tags go with it.
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Color     string    `gorm:"not null;default:'#6b7280'" json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}
