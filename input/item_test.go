package input

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseItem(t *testing.T) {
	testCases := []struct {
		title    string
		input    string
		expected RequestItem
	}{
		{
			title:    "Data field",
			input:    "foo=bar",
			expected: DataField{Name: "foo", Value: "bar"},
		},
		{
			title:    "Data field from file",
			input:    "foo=@data.json",
			expected: DataFieldFromFile{Name: "foo", Path: "data.json"},
		},
		{
			title:    "URL param",
			input:    "foo==bar",
			expected: URLParam{Name: "foo", Value: "bar"},
		},
		{
			title:    "Escaped right before separator",
			input:    `foo\==bar`,
			expected: DataField{Name: "foo=", Value: "bar"},
		},
		{
			title:    "Header",
			input:    "foo:bar",
			expected: HTTPHeader{Name: "foo", Value: "bar"},
		},
		{
			title:    "JSON field",
			input:    "foo:=[1,2]",
			expected: JSONField{Name: "foo", Value: []interface{}{float64(1), float64(2)}},
		},
		{
			title:    "JSON field from file",
			input:    "foo:=@data.json",
			expected: JSONFieldFromFile{Name: "foo", Path: "data.json"},
		},
		{
			title:    "Backslash before ordinary characters is literal",
			input:    `f\o\o=\ba\r`,
			expected: DataField{Name: `f\o\o`, Value: `\ba\r`},
		},
		{
			title:    "Escaped special characters",
			input:    `f\=\:\@\;oo=b\:\:\:ar`,
			expected: DataField{Name: "f=:@;oo", Value: "b:::ar"},
		},
		{
			title:    "Unset header",
			input:    "foobar:",
			expected: HTTPHeaderToUnset{Name: "foobar"},
		},
		{
			title:    "Empty header",
			input:    "foobar;",
			expected: HTTPHeader{Name: "foobar", Value: ""},
		},
		{
			title:    "Empty header with escapes in the name",
			input:    `foo\;bar;`,
			expected: HTTPHeader{Name: "foo;bar", Value: ""},
		},
		{
			title:    "Untyped file",
			input:    "foo@bar",
			expected: FormFile{Key: "foo", Path: "bar"},
		},
		{
			title:    "Typed file",
			input:    "foo@bar;type=qux",
			expected: FormFile{Key: "foo", Path: "bar", MediaType: "qux"},
		},
		{
			title:    "Multi-typed file splits on the last type suffix",
			input:    "foo@bar;type=qux;type=qux",
			expected: FormFile{Key: "foo", Path: "bar;type=qux", MediaType: "qux"},
		},
		{
			title:    "Empty filename",
			input:    "foo@",
			expected: FormFile{Key: "foo", Path: ""},
		},
		{
			title:    "Whole-body file",
			input:    "@body.bin",
			expected: FormFile{Key: "", Path: "body.bin"},
		},
		{
			title:    "Trailing backslash",
			input:    `foo=bar\`,
			expected: DataField{Name: "foo", Value: `bar\`},
		},
		{
			title:    "Escaped backslash",
			input:    `foo\\=bar`,
			expected: DataField{Name: `foo\`, Value: "bar"},
		},
		{
			title:    "Unicode",
			input:    "\u00B5=\u00B5",
			expected: DataField{Name: "\u00B5", Value: "\u00B5"},
		},
		{
			title:    "Only a separator",
			input:    "=",
			expected: DataField{Name: "", Value: ""},
		},
	}
	for _, tt := range testCases {
		t.Run(tt.title, func(t *testing.T) {
			item, err := ParseItem(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: err=%+v", err)
			}
			if !reflect.DeepEqual(item, tt.expected) {
				t.Errorf("unexpected item: expected=%#v, actual=%#v", tt.expected, item)
			}
		})
	}
}

func TestParseItem_Errors(t *testing.T) {
	testCases := []struct {
		title string
		input string
	}{
		{title: "No separator", input: "foobar"},
		{title: "Empty input", input: ""},
		{title: "Escaped trailing semicolon", input: `foobar\;`},
		{title: "Invalid JSON literal", input: "foo:=bar"},
	}
	for _, tt := range testCases {
		t.Run(tt.title, func(t *testing.T) {
			if _, err := ParseItem(tt.input); err == nil {
				t.Errorf("expected error for input %q", tt.input)
			}
		})
	}
}

func TestParseItem_JSONErrorNamesOffendingLiteral(t *testing.T) {
	_, err := ParseItem("foo:=bogus")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "bogus") {
		t.Errorf("error should name the offending literal: %v", err)
	}
}

func TestSeparatorPriority(t *testing.T) {
	// At a single position, compound separators win over their
	// single-character prefixes.
	testCases := []struct {
		input    string
		expected RequestItem
	}{
		{input: "a:=1", expected: JSONField{Name: "a", Value: float64(1)}},
		{input: "a:=@f", expected: JSONFieldFromFile{Name: "a", Path: "f"}},
		{input: "a=@f", expected: DataFieldFromFile{Name: "a", Path: "f"}},
		{input: "a==b", expected: URLParam{Name: "a", Value: "b"}},
		// The earliest separator wins even when a longer one occurs later
		{input: "a=b==c", expected: DataField{Name: "a", Value: "b==c"}},
		{input: "a:b:=c", expected: HTTPHeader{Name: "a", Value: "b:=c"}},
	}
	for _, tt := range testCases {
		item, err := ParseItem(tt.input)
		if err != nil {
			t.Fatalf("unexpected error for %q: %+v", tt.input, err)
		}
		if !reflect.DeepEqual(item, tt.expected) {
			t.Errorf("unexpected item for %q: expected=%#v, actual=%#v", tt.input, tt.expected, item)
		}
	}
}

func TestUnescape(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: `a\=b`, expected: "a=b"},
		{input: `a\@b`, expected: "a@b"},
		{input: `a\:b`, expected: "a:b"},
		{input: `a\;b`, expected: "a;b"},
		{input: `a\\b`, expected: `a\b`},
		{input: `a\xb`, expected: `a\xb`},
		{input: `C\:\temp`, expected: `C:\temp`},
		{input: `trailing\`, expected: `trailing\`},
	}
	for _, tt := range testCases {
		if actual := unescape(tt.input); actual != tt.expected {
			t.Errorf("unexpected result: input=%q, expected=%q, actual=%q", tt.input, tt.expected, actual)
		}
	}
}
