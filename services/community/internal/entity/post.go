package entity

import "time"

type Action string

const (
	ActionLike   Action = "like"
	ActionSave   Action = "save"
	ActionReport Action = "report"
)

type Post struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName *string   `json:"author_name"`
	Content    string    `json:"content"`
	ImageURL   *string   `json:"image_url"`
	Category   *string   `json:"category"`
	Likes      int       `json:"likes"`
	Reports    int       `json:"reports"`
	CreatedAt  time.Time `json:"created_at"`
}

// FeedItem is a post as seen by one viewer.
type FeedItem struct {
	*Post
	Liked    bool `json:"liked"`
	Saved    bool `json:"saved"`
	Reported bool `json:"reported"`
}

type Interaction struct {
	UserID string `json:"user_id"`
	PostID string `json:"post_id"`
	Action Action `json:"action"`
}

type ViewerInteractions struct {
	Liked    []string `json:"liked"`
	Saved    []string `json:"saved"`
	Reported []string `json:"reported"`
}

type LikeResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

type ReportResult struct {
	Reported bool `json:"reported"`
	Reports  int  `json:"reports"`
	Removed  bool `json:"removed"`
}

// Activity summarises a learner's community footprint for the dashboard.
type Activity struct {
	Posts         int `json:"posts"`
	LikesReceived int `json:"likes_received"`
	Liked         int `json:"liked"`
	Saved         int `json:"saved"`
	Reported      int `json:"reported"`
}
