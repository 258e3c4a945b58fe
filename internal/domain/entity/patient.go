package entity

import "time"

// Patient is created once at registration and never modified afterwards
type Patient struct {
	Identity
	Name         string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Age          int       `gorm:"not null" json:"age"`
	Contact      string    `gorm:"type:varchar(50)" json:"contact"`
	Complaint    string    `gorm:"type:text" json:"complaint"`
	RegisteredAt time.Time `gorm:"not null;index" json:"registeredAt"`
}

func (Patient) TableName() string {
	return string(CollectionPatients)
}
