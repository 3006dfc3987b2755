package domain

// SavedTrack is one entry in a user's saved-track list. The id is a
// client-generated opaque string and is unique within the owner's list.
type SavedTrack struct {
	ID          string  `json:"id" bson:"id"`
	Title       string  `json:"title" bson:"title"`
	URL         string  `json:"url" bson:"url"`
	DownloadURL string  `json:"downloadUrl" bson:"download_url"`
	Duration    float64 `json:"duration" bson:"duration"`
	DateCreated string  `json:"dateCreated" bson:"date_created"`
}

// SavedLyric references a lyric text blob held in durable storage.
type SavedLyric struct {
	ID          string `json:"id" bson:"id"`
	Title       string `json:"title" bson:"title"`
	URL         string `json:"url" bson:"url"`
	DownloadURL string `json:"downloadUrl" bson:"download_url"`
	DateCreated string `json:"dateCreated" bson:"date_created"`
}

// AllowedSampleTypes is the allow-list of media types accepted for an
// uploaded audio sample attached to a generation request.
var AllowedSampleTypes = map[string]struct{}{
	"audio/mpeg":  {},
	"audio/mp3":   {},
	"audio/wav":   {},
	"audio/x-wav": {},
	"audio/x-m4a": {},
	"audio/mp4":   {},
	"audio/aac":   {},
}

// SampleTypeAllowed reports whether the declared media type of an uploaded
// sample is acceptable.
func SampleTypeAllowed(contentType string) bool {
	_, ok := AllowedSampleTypes[contentType]
	return ok
}
