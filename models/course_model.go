package models

type Course struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`

	Topics []Topic `gorm:"constraint:OnDelete:CASCADE" json:"topics,omitempty"`
}
