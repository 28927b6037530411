package apiclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type assignmentForm struct {
	Drive          int64  `form:"drive"`
	Title          string `form:"title"`
	SubmissionType string `form:"submission_type"`
	ExternalLink   string `form:"external_link,omitempty"`
}

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")

func TestFile_Sniffing(t *testing.T) {
	f := File{Field: "file", Name: "brief.pdf", Content: pdfBytes}
	require.Equal(t, "application/pdf", f.ContentType())
	require.True(t, f.Allowed("application/zip", "application/pdf"))
	require.False(t, f.Allowed("image/png"))
	require.True(t, f.Allowed())
}

func TestClient_PostMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "4", r.FormValue("drive"))
		require.Equal(t, "Line follower", r.FormValue("title"))
		require.Equal(t, "FILE", r.FormValue("submission_type"))
		_, hasLink := r.MultipartForm.Value["external_link"]
		require.False(t, hasLink)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "brief.pdf", header.Filename)
		require.Equal(t, "application/pdf", header.Header.Get("Content-Type"))
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		require.Equal(t, pdfBytes, data)

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id": 11, "title": "Line follower"}`)
	}))
	defer srv.Close()
	c, _ := newTestClient(t, srv, "/admin")

	body, err := NewMultipart(assignmentForm{Drive: 4, Title: "Line follower", SubmissionType: "FILE"},
		File{Field: "file", Name: "brief.pdf", Content: pdfBytes})
	require.NoError(t, err)

	var got drive
	require.NoError(t, c.PostMultipart(context.Background(), "/recruitment/assignments/", body, &got))
	require.Equal(t, int64(11), got.ID)
}
