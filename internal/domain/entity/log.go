package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Log is an application log row. It records admin mutations and dead-lettered webhook events.
type Log struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Level     string     `gorm:"type:varchar(20);not null;index" json:"level"`
	Source    string     `gorm:"type:varchar(100);not null;index" json:"source"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Metadata  JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Log) TableName() string {
	return "logs"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// Log levels
const (
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Log sources
const (
	LogSourceAdmin         = "admin"
	LogSourceStripeWebhook = "stripe_webhook"
)

// Common log actions, stored in metadata["action"]
const (
	LogActionSubscriptionAssign = "subscription.assign"
	LogActionWebhookUnresolved  = "webhook.unresolved"
)
