package model

import "time"

// Role identifies which dashboard and capability set an account gets.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// User is an account in the identity store.
type User struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// SignupRequest is the payload for creating an account. Admin signups create
// their college; student signups reference an existing one.
type SignupRequest struct {
	FullName        string `json:"full_name" binding:"required,min=2,max=100"`
	Email           string `json:"email" binding:"required,email,max=255"`
	Password        string `json:"password" binding:"required,max=128"`
	ConfirmPassword string `json:"confirm_password" binding:"required,max=128"`
	Role            Role   `json:"role" binding:"required,oneof=admin student"`

	// Admin only
	CollegeName    string `json:"college_name" binding:"required_if=Role admin,max=200"`
	CollegeAddress string `json:"college_address" binding:"required_if=Role admin,max=500"`
	CollegeLogo    string `json:"college_logo" binding:"max=500"`

	// Student only
	RollNo     string `json:"roll_no" binding:"required_if=Role student,max=50"`
	Department string `json:"department" binding:"required_if=Role student,max=100,department"`
	Course     string `json:"course" binding:"required_if=Role student,max=100,course"`
	CollegeID  string `json:"college_id" binding:"required_if=Role student,max=64"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=128"`
}

// AuthResponse is returned after a successful signup or login.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
