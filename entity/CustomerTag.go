package entity

import "time"

// CustomerTag is the join table behind Customer.Tags.
type CustomerTag struct {
	CustomerID uint      `gorm:"primaryKey" json:"customerId"`
	TagID      uint      `gorm:"primaryKey" json:"tagId"`
	CreatedAt  time.Time `json:"createdAt"`
}
