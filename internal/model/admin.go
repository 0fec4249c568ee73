package model

// Admin is the profile attached 1:1 to an admin account and its college.
type Admin struct {
	ID        string   `json:"id"`
	UserID    string   `json:"user_id"`
	CollegeID string   `json:"college_id"`
	User      *User    `json:"user,omitempty"`
	College   *College `json:"college,omitempty"`
}
