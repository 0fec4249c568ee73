package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFail_UsesEnvelopeAndRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { Fail(c, http.StatusConflict, ErrDuplicateEmail) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-1")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, ErrDuplicateEmail, body.Error.Code)
	assert.Equal(t, "User with this email already exists.", body.Error.Message)
	assert.Equal(t, "req-1", body.Metadata.RequestID)
}

func TestSuccessList_SetsCount(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) { SuccessList(c, http.StatusOK, []string{"a", "b"}, 2) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Metadata.Count)
	assert.Equal(t, 2, *body.Metadata.Count)
	assert.NotEmpty(t, body.Metadata.RequestID)
}

func TestAttachment(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) { Attachment(c, "x.csv", "text/csv", []byte("a,b\n")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, `attachment; filename=x.csv`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, "a,b\n", w.Body.String())
}

func TestAttachment_QuotesSpaces(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) { Attachment(c, "Asha Rao.pdf", "application/pdf", nil) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, `attachment; filename="Asha Rao.pdf"`, w.Header().Get("Content-Disposition"))
}

func TestGetMessage_Unknown(t *testing.T) {
	assert.Equal(t, "An unexpected error occurred.", GetMessage("NOPE"))
}

func TestRequestIDMiddleware_ReplacesMalformedID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { Success(c, http.StatusOK, nil) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "bad id\r\nInjected: yes")
	r.ServeHTTP(w, req)

	got := w.Header().Get(HeaderRequestID)
	assert.NotEqual(t, "bad id\r\nInjected: yes", got)
	assert.Len(t, got, 36)
}
