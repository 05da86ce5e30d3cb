package pkg

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteResponseBytes(t *testing.T) {
	rec := httptest.NewRecorder()

	testJson := `{"horse":"Zorka"}`
	WriteResponseBytes(rec, ContentType.JSON, []byte(testJson), http.StatusCreated)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, ContentType.JSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, testJson, rec.Body.String())
}

func TestWriteResponseBytes_NoContentType(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteResponseBytes(rec, "", []byte("raw"), http.StatusOK)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Type"))
	assert.Equal(t, "raw", rec.Body.String())
}

func TestWriteResponseOKVariants(t *testing.T) {
	cases := []struct {
		name                string
		write               func(w http.ResponseWriter)
		expectedContentType string
		expectedBody        string
	}{
		{
			name: "bytes ok",
			write: func(w http.ResponseWriter) {
				WriteResponseBytesOK(w, ContentType.JSON, []byte(`{"ok":true}`))
			},
			expectedContentType: ContentType.JSON,
			expectedBody:        `{"ok":true}`,
		},
		{
			name: "json ok",
			write: func(w http.ResponseWriter) {
				WriteJSONResponseOK(w, `{"added":"a-id"}`)
			},
			expectedContentType: ContentType.JSON,
			expectedBody:        `{"added":"a-id"}`,
		},
		{
			name: "text ok",
			write: func(w http.ResponseWriter) {
				WriteTextResponseOK(w, "logged-out")
			},
			expectedContentType: ContentType.Text,
			expectedBody:        "logged-out",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tc.write(rec)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.expectedContentType, rec.Header().Get("Content-Type"))
			assert.Equal(t, tc.expectedBody, rec.Body.String())
		})
	}
}
