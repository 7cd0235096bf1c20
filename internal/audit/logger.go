package audit

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/alysesue/bookings-api-sub001/internal/models"
)

// Recorder persists operational audit rows. Booking transitions never pass
// through here; their trail is transactional and lives with the bookings.
type Recorder struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

func (r *Recorder) Record(
	serviceID uint,
	userID *uint,
	action string,
	entity string,
	entityID *uint,
	metadata any,
) error {

	var metaJSON string
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metaJSON = string(b)
		}
	}

	row := models.AuditLog{
		ServiceID: serviceID,
		UserID:    userID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Metadata:  metaJSON,
	}

	return r.db.Create(&row).Error
}
