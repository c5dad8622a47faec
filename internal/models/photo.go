package models

import "time"

// SavedPhotoTimeLayout renders saved_at as ISO-8601 with microsecond precision.
const SavedPhotoTimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// SavedPhoto is the metadata row kept for every annotated photo on disk
type SavedPhoto struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Filename         string    `gorm:"size:255;uniqueIndex;not null" json:"filename"`
	OriginalFilename string    `gorm:"size:255;not null" json:"original_filename"`
	SavedAt          time.Time `gorm:"index" json:"saved_at"`
	FaceCount        int       `gorm:"default:0" json:"face_count"`
}

func (SavedPhoto) TableName() string {
	return "saved_photos"
}

// PhotoResponse is one entry of the /api/photos listing
type PhotoResponse struct {
	ID        int64  `json:"id"`
	Filename  string `json:"filename"`
	SavedAt   string `json:"saved_at"`
	FaceCount int    `json:"face_count"`
}

// Response converts the row into its listing shape.
func (p SavedPhoto) Response() PhotoResponse {
	return PhotoResponse{
		ID:        p.ID,
		Filename:  p.Filename,
		SavedAt:   p.SavedAt.UTC().Format(SavedPhotoTimeLayout),
		FaceCount: p.FaceCount,
	}
}
