package domain

// Project represents a GitLab project enriched with its members.
type Project struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	WebURL      string   `json:"web_url"`
	Members     []Member `json:"members"`
}

// Member represents a project member.
type Member struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	State     string `json:"state"`
	AvatarURL string `json:"avatar_url"`
	WebURL    string `json:"web_url"`
}
