package input

import "net/url"

// Request is the parsed command line: where to send the request and the
// items that determine its headers, query and body.
type Request struct {
	Method Method
	URL    *url.URL
	Items  RequestItems
	Mode   RequestMode

	// RawBody is a body read from stdin. It takes the place of the
	// assembled body and cannot be combined with body items.
	RawBody    []byte
	HasRawBody bool
}

type Method string
