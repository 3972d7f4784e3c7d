package input

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// specialChars are the characters that a backslash escapes in a request
// item. A backslash before any other character is an ordinary character.
const specialChars = `=@:;\`

// separators classify a request item. Compound separators come before
// their single-character prefixes so that ":=@" at a position is not
// mistaken for ":".
var separators = []string{"=@", ":=@", "==", ":=", "=", "@", ":"}

// RequestItem is one classified unit parsed from a single command-line
// token such as "name=value", "name:=1" or "pic@photo.png".
type RequestItem interface {
	requestItem()
}

// HTTPHeader sets or overrides a request header.
type HTTPHeader struct {
	Name  string
	Value string
}

// HTTPHeaderToUnset suppresses a default header.
type HTTPHeaderToUnset struct {
	Name string
}

// URLParam is a query-string parameter.
type URLParam struct {
	Name  string
	Value string
}

// DataField is a textual form/JSON field.
type DataField struct {
	Name  string
	Value string
}

// DataFieldFromFile is a textual field whose value is read from a file.
type DataFieldFromFile struct {
	Name string
	Path string
}

// JSONField is a structured field carrying a parsed JSON literal.
type JSONField struct {
	Name  string
	Value interface{}
}

// JSONFieldFromFile is a structured field whose value is read and parsed
// from a file.
type JSONFieldFromFile struct {
	Name string
	Path string
}

// FormFile is a file to upload. An empty Key means the file is the entire
// request body.
type FormFile struct {
	Key       string
	Path      string
	MediaType string // empty when no ";type=" suffix was given
}

func (HTTPHeader) requestItem()        {}
func (HTTPHeaderToUnset) requestItem() {}
func (URLParam) requestItem()          {}
func (DataField) requestItem()         {}
func (DataFieldFromFile) requestItem() {}
func (JSONField) requestItem()         {}
func (JSONFieldFromFile) requestItem() {}
func (FormFile) requestItem()          {}

// ParseItem parses one raw token into a request item.
func ParseItem(item string) (RequestItem, error) {
	key, sep, value, found := splitItem(item)
	if !found {
		if endsWithUnescapedSemicolon(item) {
			// "name;" sets the header to an empty value, which is
			// distinct from unsetting it with "name:".
			return HTTPHeader{Name: unescape(item[:len(item)-1])}, nil
		}
		return nil, errors.Errorf("'%s' is not a valid request item", item)
	}

	switch sep {
	case "==":
		return URLParam{Name: key, Value: value}, nil
	case "=":
		return DataField{Name: key, Value: value}, nil
	case ":=":
		var v interface{}
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			return nil, errors.Wrapf(err, "invalid JSON '%s'", value)
		}
		return JSONField{Name: key, Value: v}, nil
	case "@":
		fileName, mediaType := splitFileType(value)
		return FormFile{Key: key, Path: fileName, MediaType: mediaType}, nil
	case ":":
		if value == "" {
			return HTTPHeaderToUnset{Name: key}, nil
		}
		return HTTPHeader{Name: key, Value: value}, nil
	case "=@":
		return DataFieldFromFile{Name: key, Path: value}, nil
	case ":=@":
		return JSONFieldFromFile{Name: key, Path: value}, nil
	default:
		return nil, errors.Errorf("unknown separator: %s", sep)
	}
}

// splitItem finds the earliest unescaped occurrence of a separator and
// splits the token there. At a given position the candidates are probed
// in the fixed separators order, so compound separators win over their
// prefixes. Key and value are unescaped independently.
func splitItem(item string) (key, sep, value string, found bool) {
	for i := 0; i < len(item); i++ {
		if item[i] == '\\' {
			// The next character is either escaped or an ordinary
			// character after a literal backslash; in neither case can
			// it start a separator.
			i++
			continue
		}
		for _, s := range separators {
			if strings.HasPrefix(item[i:], s) {
				return unescape(item[:i]), s, unescape(item[i+len(s):]), true
			}
		}
	}
	return "", "", "", false
}

// unescape resolves backslash escapes of the special characters. A
// backslash before anything else (including end of input) is kept, so
// paths like `C:\temp` survive as long as the `:` itself is escaped.
func unescape(text string) string {
	var out strings.Builder
	for i := 0; i < len(text); i++ {
		if text[i] == '\\' && i+1 < len(text) && strings.IndexByte(specialChars, text[i+1]) >= 0 {
			i++
		}
		out.WriteByte(text[i])
	}
	return out.String()
}

func endsWithUnescapedSemicolon(item string) bool {
	for i := 0; i < len(item); i++ {
		if item[i] == '\\' {
			i++
			continue
		}
		if item[i] == ';' && i == len(item)-1 {
			return true
		}
	}
	return false
}

// splitFileType splits a file-upload value on the last occurrence of
// ";type=". Filenames containing that literal text are ambiguous; the
// last occurrence always wins, so "bar;type=qux;type=qux" is the file
// "bar;type=qux" with media type "qux".
func splitFileType(value string) (fileName, mediaType string) {
	if i := strings.LastIndex(value, ";type="); i >= 0 {
		return value[:i], value[i+len(";type="):]
	}
	return value, ""
}
