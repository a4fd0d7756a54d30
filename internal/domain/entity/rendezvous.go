package entity

import (
	"time"

	"github.com/google/uuid"
)

// Rendezvous is an appointment booked by a client on a professional's page.
// It stays pending until the validation code is confirmed and is swept once expired.
type Rendezvous struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rendezvous_slot" json:"pro_id"`
	ClientName     string    `gorm:"type:varchar(255);not null" json:"client_name"`
	ClientPhone    string    `gorm:"type:varchar(50);not null" json:"client_phone"`
	RdvDate        time.Time `gorm:"type:date;not null;uniqueIndex:idx_rendezvous_slot" json:"rdv_date"`
	RdvTime        string    `gorm:"type:varchar(5);not null;uniqueIndex:idx_rendezvous_slot" json:"rdv_time"`
	ValidationCode string    `gorm:"type:varchar(10);not null" json:"-"`
	IsValidated    bool      `gorm:"not null;default:false;index" json:"is_validated"`
	CreatedAt      time.Time `gorm:"not null;index" json:"created_at"`

	// Relationships
	Pro *Profile `gorm:"foreignKey:ProID" json:"pro,omitempty"`
}

func (Rendezvous) TableName() string {
	return "rendezvous"
}

// MatchesCode compares codes as strings
func (r *Rendezvous) MatchesCode(code string) bool {
	return r.ValidationCode == code
}

// Validate marks the rendezvous as confirmed
func (r *Rendezvous) Validate() {
	r.IsValidated = true
}

// IsExpired reports whether a pending rendezvous outlived the ttl at now
func (r *Rendezvous) IsExpired(now time.Time, ttl time.Duration) bool {
	return !r.IsValidated && r.CreatedAt.Before(now.Add(-ttl))
}
