package input

import (
	"io"
	"io/ioutil"
	"net/url"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var (
	reMethod    = regexp.MustCompile(`^[a-zA-Z]+$`)
	reScheme    = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+-.]*://`)
	emptyMethod = Method("")
)

type UsageError string

func (e *UsageError) Error() string {
	return string(*e)
}

func newUsageError(message string) error {
	u := UsageError(message)
	return errors.WithStack(&u)
}

// ParseArgs parses the positional arguments `[METHOD] URL [ITEM ...]`
// into a Request.
func ParseArgs(args []string, stdin io.Reader, options *Options) (*Request, error) {
	var argMethod string
	var argURL string
	var argItems []string
	switch len(args) {
	case 0:
		return nil, newUsageError("URL is required")
	case 1:
		argURL = args[0]
	default:
		if reMethod.MatchString(args[0]) {
			argMethod = args[0]
			argURL = args[1]
			argItems = args[2:]
		} else {
			argURL = args[0]
			argItems = args[1:]
		}
	}

	mode, err := determineRequestMode(options)
	if err != nil {
		return nil, err
	}

	u, err := parseURL(argURL)
	if err != nil {
		return nil, err
	}

	items := make(RequestItems, 0, len(argItems))
	for _, arg := range argItems {
		item, err := ParseItem(arg)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	req := &Request{
		URL:   u,
		Items: items,
		Mode:  mode,
	}

	if options.ReadStdin {
		if items.hasBodyItems() {
			return nil, errors.New("request body (from stdin) and request item (key=value) cannot be mixed")
		}
		req.RawBody, err = ioutil.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read stdin")
		}
		req.HasRawBody = true
	}

	if argMethod != "" {
		method, err := parseMethod(argMethod)
		if err != nil {
			return nil, err
		}
		req.Method = method
	} else {
		req.Method = guessMethod(req)
	}

	return req, nil
}

func parseMethod(s string) (Method, error) {
	if !reMethod.MatchString(s) {
		return emptyMethod, errors.Errorf("METHOD must consist of alphabets: %s", s)
	}

	method := Method(strings.ToUpper(s))
	return method, nil
}

func guessMethod(req *Request) Method {
	if req.HasRawBody {
		return Method("POST")
	}
	return req.Items.PickMethod(req.Mode)
}

func parseURL(s string) (*url.URL, error) {
	defaultScheme := "http"
	defaultHost := "localhost"

	// ex) :8080/hello or /hello
	if strings.HasPrefix(s, ":") || strings.HasPrefix(s, "/") {
		s = defaultHost + s
	}

	// ex) example.com/hello
	if !reScheme.MatchString(s) {
		s = defaultScheme + "://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, newUsageError("Invalid URL: " + s)
	}
	u.Host = strings.TrimSuffix(u.Host, ":")
	if u.Path == "" {
		u.Path = "/"
	}
	return u, nil
}
