package exchange

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/htq-cli/htq/input"
	"github.com/htq-cli/htq/version"
	"github.com/pkg/errors"
)

// BuildHTTPRequest assembles the body for req and serializes everything
// into an *http.Request ready to be sent.
func BuildHTTPRequest(req *input.Request, options *Options) (*http.Request, error) {
	u, err := buildURL(req)
	if err != nil {
		return nil, err
	}

	header, headersToUnset, err := req.Items.Headers()
	if err != nil {
		return nil, err
	}

	bodyTuple, err := buildHTTPBody(req)
	if err != nil {
		return nil, err
	}

	if header.Get("Content-Type") == "" && bodyTuple.contentType != "" {
		header.Set("Content-Type", bodyTuple.contentType)
	}
	if header.Get("User-Agent") == "" {
		header.Set("User-Agent", fmt.Sprintf("htq/%s", version.Current()))
	}
	if options.Auth.Enabled {
		credentials := options.Auth.UserName + ":" + options.Auth.Password
		header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(credentials)))
	}
	for _, name := range headersToUnset {
		header.Del(name)
	}

	r := http.Request{
		Method:        string(req.Method),
		URL:           u,
		Header:        header,
		Host:          header.Get("Host"),
		Body:          bodyTuple.body,
		GetBody:       bodyTuple.getBody,
		ContentLength: bodyTuple.contentLength,
	}
	return &r, nil
}

func buildURL(req *input.Request) (*url.URL, error) {
	q, err := url.ParseQuery(req.URL.RawQuery)
	if err != nil {
		return nil, errors.Wrap(err, "parsing query string")
	}
	for _, field := range req.Items.Query() {
		q.Add(field.Name, field.Value)
	}

	u := *req.URL
	u.RawQuery = q.Encode()
	return &u, nil
}

type bodyTuple struct {
	body          io.ReadCloser
	getBody       func() (io.ReadCloser, error)
	contentLength int64
	contentType   string
}

func buildHTTPBody(req *input.Request) (bodyTuple, error) {
	if req.HasRawBody {
		return serializeBody(RawBody(req.RawBody))
	}
	body, err := AssembleBody(req.Items, req.Mode)
	if err != nil {
		return bodyTuple{}, err
	}
	return serializeBody(body)
}

func serializeBody(body Body) (bodyTuple, error) {
	if body.IsEmpty() {
		return bodyTuple{}, nil
	}
	switch b := body.(type) {
	case JSONBody:
		data, err := json.Marshal(map[string]interface{}(b))
		if err != nil {
			return bodyTuple{}, errors.Wrap(err, "marshaling JSON of HTTP body")
		}
		return bufferedBody(data, "application/json"), nil
	case FormBody:
		return bufferedBody([]byte(encodeForm(b)), "application/x-www-form-urlencoded; charset=utf-8"), nil
	case MultipartBody:
		return multipartBody(b), nil
	case RawBody:
		return bufferedBody(b, "application/json"), nil
	case FileBody:
		part, err := openFilePart(b.Path)
		if err != nil {
			return bodyTuple{}, err
		}
		return bodyTuple{
			body:          part.Reader,
			contentLength: part.Size,
			contentType:   b.MediaType,
		}, nil
	default:
		return bodyTuple{}, errors.Errorf("unknown body type: %T", body)
	}
}

func bufferedBody(data []byte, contentType string) bodyTuple {
	return bodyTuple{
		body: ioutil.NopCloser(bytes.NewReader(data)),
		getBody: func() (io.ReadCloser, error) {
			return ioutil.NopCloser(bytes.NewReader(data)), nil
		},
		contentLength: int64(len(data)),
		contentType:   contentType,
	}
}

// encodeForm URL-encodes the fields in their original order.
// url.Values.Encode would sort them by name.
func encodeForm(fields FormBody) string {
	var buf strings.Builder
	for i, field := range fields {
		if i > 0 {
			buf.WriteByte('&')
		}
		buf.WriteString(url.QueryEscape(field.Name))
		buf.WriteByte('=')
		buf.WriteString(url.QueryEscape(field.Value))
	}
	return buf.String()
}

// multipartBody streams the parts through a pipe so file parts are
// never buffered. The content length is unknown, so the request is sent
// chunked.
func multipartBody(b MultipartBody) bodyTuple {
	reader, writer := io.Pipe()
	mw := multipart.NewWriter(writer)
	go func() {
		writer.CloseWithError(writeMultipart(mw, b.Parts))
	}()
	return bodyTuple{
		body:          reader,
		contentLength: -1,
		contentType:   mw.FormDataContentType(),
	}
}

func writeMultipart(mw *multipart.Writer, parts []Part) error {
	for _, part := range parts {
		if part.File == nil {
			if err := mw.WriteField(part.FieldName, part.Text); err != nil {
				return errors.Wrapf(err, "writing field '%s'", part.FieldName)
			}
			continue
		}
		w, err := createFilePartWriter(mw, part)
		if err != nil {
			return errors.Wrapf(err, "writing file part '%s'", part.FieldName)
		}
		if _, err := io.Copy(w, part.File.Reader); err != nil {
			part.File.Reader.Close()
			return errors.Wrapf(err, "reading file '%s'", part.File.Name)
		}
		if err := part.File.Reader.Close(); err != nil {
			return errors.Wrapf(err, "closing file '%s'", part.File.Name)
		}
	}
	return mw.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func createFilePartWriter(mw *multipart.Writer, part Part) (io.Writer, error) {
	if part.MediaType == "" {
		return mw.CreateFormFile(part.FieldName, part.File.Name)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(part.FieldName), quoteEscaper.Replace(part.File.Name)))
	h.Set("Content-Type", part.MediaType)
	return mw.CreatePart(h)
}
