// File: internal/lead/model.go
package lead

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PayloadMap stores the submitted field -> value mapping as a JSON column.
type PayloadMap map[string]string

// Value implements driver.Valuer for GORM persistence.
func (p PayloadMap) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for GORM persistence.
func (p *PayloadMap) Scan(value interface{}) error {
	if value == nil {
		*p = PayloadMap{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported payload column type %T", value)
	}
	return json.Unmarshal(data, p)
}

// LeadRecord is an immutable record of one completed profile submission.
// The id is derived from the owning identity id and the creation timestamp,
// mirroring the `<userId>-<millis>` keys of the records it replaces.
type LeadRecord struct {
	ID        string     `gorm:"type:varchar(300);primaryKey" json:"id"`
	UserID    string     `gorm:"type:varchar(255);not null;index" json:"userId"`
	UserEmail string     `gorm:"type:varchar(255)" json:"userEmail,omitempty"`
	CreatedAt time.Time  `gorm:"not null;index" json:"createdAt"`
	Payload   PayloadMap `gorm:"type:text;not null" json:"payload"`
}

// TableName specifies the table name for the LeadRecord model.
func (LeadRecord) TableName() string {
	return "leads"
}

// RecordID derives the deterministic record key.
func RecordID(ownerID string, createdAt time.Time) string {
	return fmt.Sprintf("%s-%d", ownerID, createdAt.UnixMilli())
}
