// Package netx assembles multipart/form-data request bodies for the
// donation endpoints.
package netx

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
)

type field struct {
	name  string
	value string
}

type filePart struct {
	field string
	path  string
}

// Form is an ordered set of text fields and file attachments. The zero
// value is ready to use.
type Form struct {
	fields []field
	files  []filePart
}

// Set adds or replaces a text field.
func (f *Form) Set(name, value string) {
	for i := range f.fields {
		if f.fields[i].name == name {
			f.fields[i].value = value
			return
		}
	}
	f.fields = append(f.fields, field{name: name, value: value})
}

// Has reports whether a text field is present, even with an empty value.
func (f *Form) Has(name string) bool {
	_, ok := f.Value(name)
	return ok
}

// Value returns a text field's value.
func (f *Form) Value(name string) (string, bool) {
	for _, fl := range f.fields {
		if fl.name == name {
			return fl.value, true
		}
	}
	return "", false
}

// Attach queues the file at path under the given field name. The file is
// read when the form is encoded.
func (f *Form) Attach(fieldName, path string) {
	f.files = append(f.files, filePart{field: fieldName, path: path})
}

// Files returns the paths attached under fieldName.
func (f *Form) Files(fieldName string) []string {
	var out []string
	for _, fp := range f.files {
		if fp.field == fieldName {
			out = append(out, fp.path)
		}
	}
	return out
}

// Encode renders the form and returns the body with its content type.
func (f *Form) Encode() (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for _, fl := range f.fields {
		if err := w.WriteField(fl.name, fl.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", fl.name, err)
		}
	}

	for _, fp := range f.files {
		if err := writeFile(w, fp); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return body, w.FormDataContentType(), nil
}

func writeFile(w *multipart.Writer, fp filePart) error {
	data, err := os.ReadFile(fp.path)
	if err != nil {
		return fmt.Errorf("read %s: %w", fp.path, err)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fp.field, filepath.Base(fp.path)))
	h.Set("Content-Type", http.DetectContentType(data))

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create part %s: %w", fp.path, err)
	}
	if _, err := io.Copy(part, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write part %s: %w", fp.path, err)
	}
	return nil
}
