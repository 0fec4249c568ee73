package model

// Student is the profile attached 1:1 to a student account.
type Student struct {
	ID         string   `json:"id"`
	UserID     string   `json:"user_id"`
	RollNo     string   `json:"roll_no"`
	Department string   `json:"department"`
	Course     string   `json:"course"`
	CollegeID  string   `json:"college_id"`
	User       *User    `json:"user,omitempty"`
	College    *College `json:"college,omitempty"`
}

// Departments offered at signup.
var Departments = []string{
	"computer-science",
	"electronics",
	"mechanical",
	"civil",
	"information-technology",
}

// Courses offered at signup.
var Courses = []string{"btech", "mtech", "bsc", "msc", "bca", "mca"}

// FullName returns the student's name or "" when the user is not attached.
func (s *Student) FullName() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.FullName
}
