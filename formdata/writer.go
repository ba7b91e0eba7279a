package formdata

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// Write encodes fields as multipart/form-data into w and returns the content
// type, including the boundary.
func Write(w io.Writer, fields []Field) (string, error) {
	mw := multipart.NewWriter(w)
	for _, f := range fields {
		if err := writeField(mw, f); err != nil {
			return "", err
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}
	return mw.FormDataContentType(), nil
}

func writeField(mw *multipart.Writer, f Field) error {
	if !f.IsFile() {
		if err := mw.WriteField(f.Name, f.Contents); err != nil {
			return fmt.Errorf("write field %q: %w", f.Name, err)
		}
		return nil
	}

	src, err := f.Reader()
	if err != nil {
		return fmt.Errorf("open file %q for field %q: %w", f.Filename, f.Name, err)
	}
	defer src.Close()

	part, err := mw.CreateFormFile(f.Name, f.Filename)
	if err != nil {
		return fmt.Errorf("create file part %q: %w", f.Name, err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("copy file %q: %w", f.Filename, err)
	}
	return nil
}

// Encode is Write into a fresh buffer.
func Encode(fields []Field) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	contentType, err := Write(body, fields)
	if err != nil {
		return nil, "", err
	}
	return body, contentType, nil
}
