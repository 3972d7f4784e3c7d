package exchange

import (
	"encoding/json"
	"io/ioutil"
	"mime"
	"path/filepath"

	"github.com/htq-cli/htq/input"
	"github.com/pkg/errors"
)

// Body is an assembled request payload in exactly one wire
// representation.
type Body interface {
	// IsEmpty reports whether there is nothing to send. A multipart body
	// is never empty because its content type must match the encoded
	// boundary, and a whole-file body is never empty because it is
	// streamed rather than buffered.
	IsEmpty() bool

	body()
}

// JSONBody is a structured JSON object.
type JSONBody map[string]interface{}

// FormBody is an ordered list of URL-encoded text fields.
type FormBody []input.Field

// MultipartBody is an ordered sequence of named parts, each either
// inline text or a streamed file.
type MultipartBody struct {
	Parts []Part
}

// RawBody is a pre-serialized byte buffer, e.g. read from stdin.
type RawBody []byte

// FileBody streams a single local file as the entire request body.
type FileBody struct {
	Path      string
	MediaType string // resolved media type; empty when unknown
}

func (b JSONBody) IsEmpty() bool    { return len(b) == 0 }
func (b FormBody) IsEmpty() bool    { return len(b) == 0 }
func (MultipartBody) IsEmpty() bool { return false }
func (b RawBody) IsEmpty() bool     { return len(b) == 0 }
func (FileBody) IsEmpty() bool      { return false }

func (JSONBody) body()      {}
func (FormBody) body()      {}
func (MultipartBody) body() {}
func (RawBody) body()       {}
func (FileBody) body()      {}

// Part is one entry of a multipart body. File is nil for inline text
// parts.
type Part struct {
	FieldName string
	Text      string
	File      *FilePart
	MediaType string // declared media type for file parts; empty for default
}

// PickMethod guesses the HTTP method appropriate for sending body.
// input.RequestItems.PickMethod answers the same question without
// building a body first.
func PickMethod(body Body) input.Method {
	if body == nil || body.IsEmpty() {
		return input.Method("GET")
	}
	return input.Method("POST")
}

// AssembleBody consumes the items and produces the single body
// representation for the given request mode. File-backed items are read
// here; any failure aborts assembly before network activity.
func AssembleBody(items input.RequestItems, mode input.RequestMode) (Body, error) {
	switch {
	case mode == input.ModeMultipart:
		return bodyAsMultipart(items)
	case mode == input.ModeForm && items.HasFormFiles():
		// Files force multipart even in form mode.
		return bodyAsMultipart(items)
	case mode == input.ModeForm:
		return bodyAsForm(items)
	case items.HasFormFiles():
		return bodyFromFile(items)
	default:
		return bodyAsJSON(items)
	}
}

func bodyAsJSON(items input.RequestItems) (Body, error) {
	body := JSONBody{}
	for _, item := range items {
		switch it := item.(type) {
		case input.JSONField:
			body[it.Name] = it.Value
		case input.JSONFieldFromFile:
			data, err := ioutil.ReadFile(it.Path)
			if err != nil {
				return nil, errors.Wrapf(err, "reading JSON value of '%s'", it.Name)
			}
			var v interface{}
			if err := json.Unmarshal(data, &v); err != nil {
				return nil, errors.Wrapf(err, "parsing JSON in file '%s'", it.Path)
			}
			body[it.Name] = v
		case input.DataField:
			body[it.Name] = it.Value
		case input.DataFieldFromFile:
			data, err := ioutil.ReadFile(it.Path)
			if err != nil {
				return nil, errors.Wrapf(err, "reading field value of '%s'", it.Name)
			}
			body[it.Name] = string(data)
		case input.FormFile:
			// The dispatch in AssembleBody routes collections with form
			// files away from this builder.
			panic("form file in JSON body")
		}
	}
	return body, nil
}

func bodyAsForm(items input.RequestItems) (Body, error) {
	var fields FormBody
	for _, item := range items {
		switch it := item.(type) {
		case input.JSONField, input.JSONFieldFromFile:
			return nil, errors.New("JSON values are not supported in form fields")
		case input.DataField:
			fields = append(fields, input.Field{Name: it.Name, Value: it.Value})
		case input.DataFieldFromFile:
			data, err := ioutil.ReadFile(it.Path)
			if err != nil {
				return nil, errors.Wrapf(err, "reading field value of '%s'", it.Name)
			}
			fields = append(fields, input.Field{Name: it.Name, Value: string(data)})
		case input.FormFile:
			panic("form file in URL-encoded form body")
		}
	}
	return fields, nil
}

func bodyAsMultipart(items input.RequestItems) (Body, error) {
	var parts []Part
	for _, item := range items {
		switch it := item.(type) {
		case input.JSONField, input.JSONFieldFromFile:
			return nil, errors.New("JSON values are not supported in multipart fields")
		case input.DataField:
			parts = append(parts, Part{FieldName: it.Name, Text: it.Value})
		case input.DataFieldFromFile:
			data, err := ioutil.ReadFile(it.Path)
			if err != nil {
				return nil, errors.Wrapf(err, "reading field value of '%s'", it.Name)
			}
			parts = append(parts, Part{FieldName: it.Name, Text: string(data)})
		case input.FormFile:
			file, err := openFilePart(it.Path)
			if err != nil {
				return nil, err
			}
			parts = append(parts, Part{FieldName: it.Key, File: file, MediaType: it.MediaType})
		}
	}
	return MultipartBody{Parts: parts}, nil
}

// bodyFromFile handles the whole-file body: exactly one file item with
// an empty key, nothing else that would produce body content.
func bodyFromFile(items input.RequestItems) (Body, error) {
	for _, item := range items {
		if f, ok := item.(input.FormFile); ok && f.Key != "" {
			return nil, errors.New("cannot use file fields in JSON mode (perhaps you meant --form?)")
		}
	}
	var body *FileBody
	for _, item := range items {
		switch it := item.(type) {
		case input.DataField, input.DataFieldFromFile, input.JSONField, input.JSONFieldFromFile:
			return nil, errors.New("request body (from a file) and request data (key=value) cannot be mixed")
		case input.FormFile:
			if body != nil {
				return nil, errors.New("cannot read request body from multiple files")
			}
			mediaType := it.MediaType
			if mediaType == "" {
				mediaType = mime.TypeByExtension(filepath.Ext(it.Path))
			}
			body = &FileBody{Path: it.Path, MediaType: mediaType}
		}
	}
	if body == nil {
		panic("whole-file body without a file item")
	}
	return *body, nil
}
