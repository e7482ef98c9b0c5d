package access

import "time"

type Request struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	FullName    string    `gorm:"size:150;not null"`
	Email       string    `gorm:"size:254;not null;index"`
	DesiredRole string    `gorm:"size:100;not null"`
	Message     *string   `gorm:"type:text"`
	Processed   bool      `gorm:"not null;default:false"`
	RequestedAt time.Time `gorm:"not null"`
}

func (Request) TableName() string {
	return "access_requests"
}

type ListFilter struct {
	Processed *bool
	Limit     int
	Offset    int
}

type SubmitInput struct {
	FullName    string
	Email       string
	DesiredRole string
	Message     *string
}
