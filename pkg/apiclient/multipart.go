package apiclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-faster/errors"
	"github.com/go-playground/form"
)

var formEncoder = func() *form.Encoder {
	enc := form.NewEncoder()
	enc.SetTagName("form")
	return enc
}()

// File is one file part of a multipart upload.
type File struct {
	Field   string
	Name    string
	Content []byte
}

func ReadFile(field, name string, r io.Reader) (File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return File{}, errors.Wrap(err, "read upload")
	}
	return File{Field: field, Name: name, Content: data}, nil
}

// ContentType sniffs the file's MIME type from its bytes.
func (f File) ContentType() string {
	return mimetype.Detect(f.Content).String()
}

// Allowed reports whether the sniffed type, or one of its aliases, is among
// types.
func (f File) Allowed(types ...string) bool {
	if len(types) == 0 {
		return true
	}
	detected := mimetype.Detect(f.Content)
	for _, t := range types {
		if detected.Is(t) {
			return true
		}
	}
	return false
}

// Multipart is a file-bearing request body. Plain fields come from a struct
// with `form` tags.
type Multipart struct {
	Fields url.Values
	Files  []File
}

func NewMultipart(fields any, files ...File) (*Multipart, error) {
	values := url.Values{}
	if fields != nil {
		encoded, err := formEncoder.Encode(fields)
		if err != nil {
			return nil, errors.Wrap(err, "encode form fields")
		}
		values = encoded
	}
	return &Multipart{Fields: values, Files: files}, nil
}

func (m *Multipart) encode() (string, []byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range m.Fields[k] {
			if err := w.WriteField(k, v); err != nil {
				return "", nil, errors.Wrap(err, "write field")
			}
		}
	}

	for _, f := range m.Files {
		if f.Field == "" {
			return "", nil, fmt.Errorf("multipart file %q: empty field name", f.Name)
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(f.Field), escapeQuotes(f.Name)))
		h.Set("Content-Type", f.ContentType())
		part, err := w.CreatePart(h)
		if err != nil {
			return "", nil, errors.Wrap(err, "create file part")
		}
		if _, err := part.Write(f.Content); err != nil {
			return "", nil, errors.Wrap(err, "write file part")
		}
	}

	if err := w.Close(); err != nil {
		return "", nil, errors.Wrap(err, "close multipart")
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
