package formdata

import (
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"
)

// Opener returns a fresh reader over file contents. It is called once per
// encoding, so a retried request re-reads the file from the start.
type Opener func() (io.ReadCloser, error)

// File is an uploaded file: its client-side name and a way to read it.
type File struct {
	Filename string
	Open     Opener
}

// FileFromPath reads the file stored at path and reports it as filename.
func FileFromPath(path, filename string) File {
	return File{
		Filename: filename,
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// FileFromBytes serves data as the contents of filename.
func FileFromBytes(filename string, data []byte) File {
	return File{
		Filename: filename,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// FileGroup is every file uploaded under one form field.
type FileGroup struct {
	Field string
	Files []File
}

// Field is one part of a multipart body. File parts carry a Filename and an
// opener; text parts carry Contents.
type Field struct {
	Name     string
	Contents string
	Filename string
	open     Opener
}

// TextField builds a plain form field.
func TextField(name, contents string) Field {
	return Field{Name: name, Contents: contents}
}

// FileField builds a file part named name.
func FileField(name string, file File) Field {
	return Field{Name: name, Filename: file.Filename, open: file.Open}
}

// IsFile reports whether the field is a file part.
func (f Field) IsFile() bool {
	return f.open != nil
}

// Reader opens the part contents.
func (f Field) Reader() (io.ReadCloser, error) {
	if f.open == nil {
		return io.NopCloser(strings.NewReader(f.Contents)), nil
	}
	return f.open()
}

// Flatten turns a structured body into form fields. Nested maps and lists
// produce bracket-suffixed names; empty branches produce nothing.
func Flatten(body Value) []Field {
	var fields []Field
	switch body.kind {
	case KindMap:
		for _, e := range body.entries {
			fields = appendFlattened(fields, e.Key, e.Value)
		}
	case KindList:
		for i, item := range body.items {
			fields = appendFlattened(fields, strconv.Itoa(i), item)
		}
	}
	return fields
}

func appendFlattened(dst []Field, name string, v Value) []Field {
	switch v.kind {
	case KindMap:
		for _, e := range v.entries {
			dst = appendFlattened(dst, name+"["+e.Key+"]", e.Value)
		}
	case KindList:
		for i, item := range v.items {
			dst = appendFlattened(dst, name+"["+strconv.Itoa(i)+"]", item)
		}
	default:
		dst = append(dst, TextField(name, v.Text()))
	}
	return dst
}

// Build flattens body and appends one file part per uploaded file. Files keep
// their group's field name, groups are emitted in order and files within a
// group in list order.
func Build(body Value, files []FileGroup) []Field {
	fields := Flatten(body)
	for _, group := range files {
		for _, file := range group.Files {
			fields = append(fields, FileField(group.Field, file))
		}
	}
	return fields
}
