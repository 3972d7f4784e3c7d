package input

import (
	"net/http"
	"regexp"

	"github.com/pkg/errors"
)

var reHeaderFieldName = regexp.MustCompile("^[-!#$%&'*+.^_|~a-zA-Z0-9]+$")

// RequestItems is an ordered collection of parsed request items. The
// order matters for field insertion order in the assembled body, not for
// classification.
type RequestItems []RequestItem

// Field is a name/value pair derived from a request item.
type Field struct {
	Name  string
	Value string
}

// Headers projects header items into a header map plus the list of
// default-header names to unset. A later header overrides an earlier one
// with the same name.
func (items RequestItems) Headers() (http.Header, []string, error) {
	header := make(http.Header)
	var toUnset []string
	for _, item := range items {
		switch it := item.(type) {
		case HTTPHeader:
			if !isValidHeaderFieldName(it.Name) {
				return nil, nil, errors.Errorf("invalid header field name: %s", it.Name)
			}
			if !isValidHeaderFieldValue(it.Value) {
				return nil, nil, errors.Errorf("invalid header field value of '%s'", it.Name)
			}
			header.Set(it.Name, it.Value)
		case HTTPHeaderToUnset:
			if !isValidHeaderFieldName(it.Name) {
				return nil, nil, errors.Errorf("invalid header field name: %s", it.Name)
			}
			toUnset = append(toUnset, it.Name)
		}
	}
	return header, toUnset, nil
}

// Query returns the URL parameters in their original order. Duplicate
// names are kept.
func (items RequestItems) Query() []Field {
	var query []Field
	for _, item := range items {
		if p, ok := item.(URLParam); ok {
			query = append(query, Field{Name: p.Name, Value: p.Value})
		}
	}
	return query
}

// HasFormFiles reports whether any file-upload item is present.
func (items RequestItems) HasFormFiles() bool {
	for _, item := range items {
		if _, ok := item.(FormFile); ok {
			return true
		}
	}
	return false
}

// IsMultipart reports whether assembling these items in the given mode
// produces a multipart body, without materializing one. It must mirror
// the dispatch of exchange.AssembleBody.
func (items RequestItems) IsMultipart(mode RequestMode) bool {
	switch mode {
	case ModeMultipart:
		return true
	case ModeForm:
		return items.HasFormFiles()
	default:
		return false
	}
}

// PickMethod guesses the HTTP method that fits the body these items
// would assemble to in the given mode. It is computed from the items
// alone, so callers do not have to build (and consume) a body first.
func (items RequestItems) PickMethod(mode RequestMode) Method {
	if mode == ModeMultipart {
		return Method("POST")
	}
	if items.hasBodyItems() {
		return Method("POST")
	}
	return Method("GET")
}

func (items RequestItems) hasBodyItems() bool {
	for _, item := range items {
		switch item.(type) {
		case DataField, DataFieldFromFile, JSONField, JSONFieldFromFile, FormFile:
			return true
		}
	}
	return false
}

func isValidHeaderFieldName(s string) bool {
	return reHeaderFieldName.MatchString(s)
}

// isValidHeaderFieldValue applies the same rule net/http enforces on the
// wire: no control characters other than horizontal tab.
func isValidHeaderFieldValue(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == 0x7f || (c < 0x20 && c != '\t') {
			return false
		}
	}
	return true
}
