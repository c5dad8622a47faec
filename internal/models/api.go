package models

// ImageRequest is the body of /api/detect_faces and /api/save_photo.
// Image is a data URL ("data:image/jpeg;base64,...").
type ImageRequest struct {
	Image *string `json:"image"`
}

// Face is an axis-aligned bounding box in pixel coordinates, top-left origin
type Face struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type DetectResponse struct {
	Faces     []Face `json:"faces"`
	FaceCount int    `json:"face_count"`
}

type SaveResponse struct {
	Message   string `json:"message"`
	PhotoID   int64  `json:"photo_id"`
	Filename  string `json:"filename"`
	FaceCount int    `json:"face_count"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
