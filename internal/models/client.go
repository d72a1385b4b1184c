package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/client-onboarding/internal/idx"
)

// Client onboarded by an administrator. Never updated or deleted.
type Client struct {
	ID           string `gorm:"primaryKey;size:26" json:"id"`
	Name         string `gorm:"size:200;not null" json:"name"`
	Email        string `gorm:"size:320;not null" json:"email"`
	BusinessName string `gorm:"column:business_name;size:200;not null" json:"business_name"`

	CreatedAt time.Time `gorm:"index;autoCreateTime" json:"created_at"`
}

func (Client) TableName() string {
	return "clients"
}

// BeforeCreate assigns the id; callers never choose it.
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	c.ID = idx.New()
	return nil
}
