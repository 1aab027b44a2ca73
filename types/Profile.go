package types

import "time"

type UserProfile struct {
	UserID             string `gorm:"primaryKey;type:varchar(64)"`
	FullName           string
	Phone              string
	Address            string
	City               string
	Country            string
	BusinessName       string
	BusinessType       string
	RegistrationNumber string
	BusinessAddress    string
	ProfilePhotoURL    string    `gorm:"type:text"`
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

func (UserProfile) TableName() string {
	return TableProfiles
}
