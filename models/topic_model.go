package models

type Topic struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	CourseID uint   `gorm:"not null;uniqueIndex:idx_topics_course_number" json:"course_id"`
	Name     string `gorm:"size:255;not null" json:"name"`
	Number   int    `gorm:"not null;uniqueIndex:idx_topics_course_number" json:"number"`

	Questions []Question `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

type TopicWithCourse struct {
	Topic
	CourseName string `json:"course_name"`
}
