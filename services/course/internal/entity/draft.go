package entity

type CourseDraft struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	Level          string `json:"level"`
	InstructorName string `json:"instructor_name"`
	Stream         string `json:"stream"`
	ThumbnailURL   string `json:"thumbnail_url"`
	IsPaid         bool   `json:"is_paid"`
	Language       string `json:"language"`
	Recommended    bool   `json:"recommended"`
}

type VideoDraft struct {
	Title        string `json:"title"`
	Instructor   string `json:"instructor"`
	VideoURL     string `json:"video_url"`
	Duration     *int   `json:"duration"`
	ThumbnailURL string `json:"thumbnail_url"`
	OrderIndex   *int   `json:"order_index"`
	IsFree       *bool  `json:"is_free"`
}

type ResourceDraft struct {
	Name    string `json:"name"`
	FileURL string `json:"file_url"`
}

// TopicDraft and VideoDraft take their position among kept rows when OrderIndex is unset.
type TopicDraft struct {
	Title      string          `json:"title"`
	OrderIndex *int            `json:"order_index"`
	Videos     []VideoDraft    `json:"videos"`
	Resources  []ResourceDraft `json:"resources"`
}

// Draft is a whole course as submitted from the authoring form.
type Draft struct {
	Course CourseDraft  `json:"course"`
	Topics []TopicDraft `json:"topics"`
}
