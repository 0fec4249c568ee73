// Package certificate lays out bonafide certificates and exports them as PDF.
package certificate

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"
	"unicode"

	"github.com/stemsi/bonafide-backend/internal/model"
)

const notAvailable = "N/A"

// Span is a run of text in a single weight.
type Span struct {
	Text string
	Bold bool
}

// Document is a laid-out certificate, independent of the output format.
type Document struct {
	RequestID      string
	CollegeName    string
	CollegeAddress string
	Logo           []byte
	Title          string
	Paragraphs     [][]Span
	IssueDate      string
	Signatory      string
}

// LogoSource resolves a college logo reference to image bytes.
type LogoSource func(ref string) ([]byte, error)

// Renderer produces certificate documents and their PDF form.
type Renderer struct {
	logos LogoSource
}

// NewRenderer creates a Renderer. logos may be nil, in which case certificates
// are rendered without a logo.
func NewRenderer(logos LogoSource) *Renderer {
	return &Renderer{logos: logos}
}

// Render lays out the certificate for an approved request. The request's
// student (with user) should be attached; missing values render as N/A.
func (r *Renderer) Render(req *model.BonafideRequest, college *model.College, issued time.Time) *Document {
	student := req.Student
	if student == nil {
		student = &model.Student{}
	}

	doc := &Document{
		RequestID:      req.ID,
		CollegeName:    college.Name,
		CollegeAddress: college.Address,
		Title:          "BONAFIDE CERTIFICATE",
		IssueDate:      issued.Format("02/01/2006"),
		Signatory:      "Principal/Registrar",
		Paragraphs: [][]Span{
			{
				{Text: "This is to certify that Mr./Ms. "},
				{Text: orNA(student.FullName()), Bold: true},
				{Text: ", Roll No: "},
				{Text: orNA(student.RollNo), Bold: true},
				{Text: ", Department of "},
				{Text: FormatLabel(student.Department), Bold: true},
				{Text: ", has been a bonafide student of this institution, enrolled in the "},
				{Text: FormatLabel(student.Course), Bold: true},
				{Text: " program during the academic year "},
				{Text: orNA(req.AcademicYear), Bold: true},
				{Text: ", Year "},
				{Text: orNA(req.Year), Bold: true},
				{Text: "."},
			},
			{
				{Text: "This certificate is issued for the purpose of "},
				{Text: FormatLabel(req.Purpose), Bold: true},
				{Text: "."},
			},
		},
	}

	if college.Logo != "" && r.logos != nil {
		if data, err := r.logos(college.Logo); err == nil && embeddable(data) {
			doc.Logo = data
		}
	}
	return doc
}

// PlainText joins a paragraph's spans.
func PlainText(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// FormatLabel turns an option value such as "higher-education" into
// "Higher Education". Empty values render as N/A.
func FormatLabel(value string) string {
	if value == "" {
		return notAvailable
	}
	runes := []rune(strings.ReplaceAll(value, "-", " "))
	startOfWord := true
	for i, c := range runes {
		isWord := unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_'
		if isWord && startOfWord {
			runes[i] = unicode.ToUpper(c)
		}
		startOfWord = !isWord
	}
	return string(runes)
}

// Filename returns the download name of a request's certificate.
func Filename(req *model.BonafideRequest) string {
	if name := strings.TrimSpace(req.Student.FullName()); name != "" {
		return "bonafide-certificate-" + strings.ReplaceAll(name, " ", "_") + ".pdf"
	}
	return "bonafide-certificate-" + req.ID + ".pdf"
}

// embeddable reports whether data is an image format the PDF writer can embed.
func embeddable(data []byte) bool {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	return err == nil && (format == "png" || format == "jpeg")
}

func orNA(v string) string {
	if v == "" {
		return notAvailable
	}
	return v
}
