package certificate

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/bonafide-backend/internal/model"
)

func approvedRequest() *model.BonafideRequest {
	return &model.BonafideRequest{
		ID:           "req-1",
		Purpose:      "higher-education",
		AcademicYear: "2024-2025",
		Year:         "3rd",
		Status:       model.StatusApproved,
		Student: &model.Student{
			RollNo:     "CS-042",
			Department: "computer-science",
			Course:     "btech",
			User:       &model.User{FullName: "Asha Rao"},
		},
	}
}

func greenwood() *model.College {
	return &model.College{
		Name:    "Greenwood University",
		Address: "123 University Avenue, Knowledge City, 12345",
		Logo:    "/uploads/logo.png",
	}
}

func TestFormatLabel(t *testing.T) {
	cases := map[string]string{
		"":                       "N/A",
		"bank-loan":              "Bank Loan",
		"higher-education":       "Higher Education",
		"btech":                  "Btech",
		"information-technology": "Information Technology",
		"3rd":                    "3rd",
		"other reason":           "Other Reason",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatLabel(in), "input %q", in)
	}
}

func TestRender_Text(t *testing.T) {
	r := NewRenderer(nil)
	issued := time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)

	doc := r.Render(approvedRequest(), greenwood(), issued)

	assert.Equal(t, "req-1", doc.RequestID)
	assert.Equal(t, "Greenwood University", doc.CollegeName)
	assert.Equal(t, "BONAFIDE CERTIFICATE", doc.Title)
	assert.Equal(t, "07/03/2025", doc.IssueDate)
	assert.Equal(t, "Principal/Registrar", doc.Signatory)
	require.Len(t, doc.Paragraphs, 2)
	assert.Equal(t,
		"This is to certify that Mr./Ms. Asha Rao, Roll No: CS-042, Department of Computer Science, "+
			"has been a bonafide student of this institution, enrolled in the Btech program during the "+
			"academic year 2024-2025, Year 3rd.",
		PlainText(doc.Paragraphs[0]))
	assert.Equal(t, "This certificate is issued for the purpose of Higher Education.", PlainText(doc.Paragraphs[1]))
	assert.Nil(t, doc.Logo)
}

func TestRender_MissingStudentRendersNA(t *testing.T) {
	req := approvedRequest()
	req.Student = nil

	doc := NewRenderer(nil).Render(req, greenwood(), time.Now())

	assert.Contains(t, PlainText(doc.Paragraphs[0]), "Mr./Ms. N/A, Roll No: N/A, Department of N/A")
}

func pngLogo(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 52, G: 152, B: 219, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRender_Logo(t *testing.T) {
	logo := pngLogo(t)
	var asked string
	r := NewRenderer(func(ref string) ([]byte, error) {
		asked = ref
		return logo, nil
	})

	doc := r.Render(approvedRequest(), greenwood(), time.Now())
	assert.Equal(t, "/uploads/logo.png", asked)
	assert.Equal(t, logo, doc.Logo)

	failing := NewRenderer(func(string) ([]byte, error) { return nil, errors.New("gone") })
	assert.Nil(t, failing.Render(approvedRequest(), greenwood(), time.Now()).Logo)

	garbage := NewRenderer(func(string) ([]byte, error) { return []byte("not an image"), nil })
	assert.Nil(t, garbage.Render(approvedRequest(), greenwood(), time.Now()).Logo)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "bonafide-certificate-Asha_Rao.pdf", Filename(approvedRequest()))

	anonymous := approvedRequest()
	anonymous.Student = nil
	assert.Equal(t, "bonafide-certificate-req-1.pdf", Filename(anonymous))
}
