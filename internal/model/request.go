package model

import (
	"slices"
	"time"
)

// RequestStatus enumerates the states of a bonafide request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// IsDecision reports whether s is a status an admin can set.
func (s RequestStatus) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// BonafideRequest is one entry of the request ledger.
type BonafideRequest struct {
	ID              string        `json:"id"`
	StudentID       string        `json:"student_id"`
	CollegeID       string        `json:"college_id"`
	Purpose         string        `json:"purpose"`
	AcademicYear    string        `json:"academic_year"`
	Year            string        `json:"year"`
	ContactInfo     string        `json:"contact_info"`
	Status          RequestStatus `json:"status"`
	CertificatePath *string       `json:"certificate_path,omitempty"`
	RequestDate     time.Time     `json:"request_date"`
	ProcessedDate   *time.Time    `json:"processed_date,omitempty"`
	ProcessedBy     *string       `json:"processed_by,omitempty"`
	Student         *Student      `json:"student,omitempty"`
}

// CertificatePathFor returns the storage-relative path of a request's certificate.
func CertificatePathFor(requestID string) string {
	return "certificates/" + requestID + ".pdf"
}

// SubmitRequestRequest is the payload a student sends to open a request.
type SubmitRequestRequest struct {
	Purpose      string `json:"purpose" binding:"required,oneof=bank-loan passport scholarship visa employment higher-education other"`
	AcademicYear string `json:"academic_year" binding:"required,max=20"`
	Year         string `json:"year" binding:"required,oneof=1st 2nd 3rd 4th 5th"`
	ContactInfo  string `json:"contact_info" binding:"required,max=200"`
}

// RequestStats counts ledger entries per status for dashboards.
type RequestStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// Add counts one request.
func (s *RequestStats) Add(status RequestStatus) {
	s.Total++
	switch status {
	case StatusPending:
		s.Pending++
	case StatusApproved:
		s.Approved++
	case StatusRejected:
		s.Rejected++
	}
}

// Purposes a certificate can be requested for.
var Purposes = []string{
	"bank-loan",
	"passport",
	"scholarship",
	"visa",
	"employment",
	"higher-education",
	"other",
}

// StudentYears selectable on a request.
var StudentYears = []string{"1st", "2nd", "3rd", "4th", "5th"}

// IsOption reports whether v is one of options.
func IsOption(options []string, v string) bool {
	return slices.Contains(options, v)
}
