package input

import "github.com/pkg/errors"

// Options selects how command-line data items are interpreted.
type Options struct {
	JSON      bool
	Form      bool
	Multipart bool
	ReadStdin bool
}

// RequestMode chooses among the body construction strategies.
type RequestMode int

const (
	ModeJSON RequestMode = iota
	ModeForm
	ModeMultipart
)

func (m RequestMode) String() string {
	switch m {
	case ModeJSON:
		return "json"
	case ModeForm:
		return "form"
	case ModeMultipart:
		return "multipart"
	default:
		return "unknown"
	}
}

func determineRequestMode(options *Options) (RequestMode, error) {
	n := 0
	for _, flag := range []bool{options.JSON, options.Form, options.Multipart} {
		if flag {
			n++
		}
	}
	if n > 1 {
		return ModeJSON, errors.New("you cannot specify more than one of --json, --form and --multipart")
	}
	switch {
	case options.Form:
		return ModeForm, nil
	case options.Multipart:
		return ModeMultipart, nil
	default:
		return ModeJSON, nil
	}
}
