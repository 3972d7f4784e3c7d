package flags

import (
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/htq-cli/htq/exchange"
	"github.com/htq-cli/htq/input"
	"github.com/htq-cli/htq/output"
	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt"
	"github.com/pkg/errors"
)

var reNumber = regexp.MustCompile(`^[0-9.]+$`)

type FlagSet interface {
	Args() []string
	PrintUsage(w io.Writer)
}

type OptionSet struct {
	InputOptions    input.Options
	ExchangeOptions exchange.Options
	OutputOptions   output.Options
}

type terminalInfo struct {
	stdinIsTerminal  bool
	stdoutIsTerminal bool
}

func Parse(args []string) ([]string, FlagSet, *OptionSet, error) {
	return parse(args, terminalInfo{
		stdinIsTerminal:  isatty.IsTerminal(os.Stdin.Fd()),
		stdoutIsTerminal: isatty.IsTerminal(os.Stdout.Fd()),
	})
}

func parse(args []string, term terminalInfo) ([]string, FlagSet, *OptionSet, error) {
	inputOptions := input.Options{}
	exchangeOptions := exchange.Options{}
	outputOptions := output.Options{}
	var ignoreStdin bool
	printFlag := "\000" // "\000" is a special value that indicates user did not specified --print
	authFlag := ""
	verifyFlag := "yes"
	timeout := "30s"

	flagSet := getopt.New()
	flagSet.SetParameters("[METHOD] URL [REQUEST_ITEM [REQUEST_ITEM ...]]")
	flagSet.BoolVarLong(&inputOptions.JSON, "json", 'j', "serialize data items as a JSON object (default)")
	flagSet.BoolVarLong(&inputOptions.Form, "form", 'f', "serialize body in application/x-www-form-urlencoded")
	flagSet.BoolVarLong(&inputOptions.Multipart, "multipart", 0, "serialize body in multipart/form-data")
	flagSet.StringVarLong(&printFlag, "print", 'p', "specifies what the output should contain (HBhb)")
	flagSet.BoolVarLong(&ignoreStdin, "ignore-stdin", 0, "do not attempt to read stdin")
	flagSet.StringVarLong(&timeout, "timeout", 0, "timeout seconds that you allow the whole operation to take")
	flagSet.BoolVarLong(&exchangeOptions.FollowRedirects, "follow", 'F', "follow redirects")
	flagSet.StringVarLong(&verifyFlag, "verify", 0, "verify TLS certificates (yes|no)")
	flagSet.BoolVarLong(&exchangeOptions.ForceHTTP1, "http1", 0, "force HTTP/1.1 protocol")
	flagSet.StringVarLong(&authFlag, "auth", 'a', "username[:password] for basic authentication")
	flagSet.BoolVarLong(&outputOptions.Download, "download", 'd', "save the response body to a file")
	flagSet.StringVarLong(&outputOptions.OutputFile, "output", 'o', "save the response body to this file")
	flagSet.BoolVarLong(&outputOptions.Overwrite, "overwrite", 0, "overwrite the output file")
	flagSet.Parse(args)

	// Stdin becomes the raw request body when it is piped in
	if !ignoreStdin && !term.stdinIsTerminal {
		inputOptions.ReadStdin = true
	}

	if err := parsePrintFlag(printFlag, term, &outputOptions); err != nil {
		return nil, nil, nil, err
	}

	d, err := parseDurationOrSeconds(timeout)
	if err != nil {
		return nil, nil, nil, err
	}
	exchangeOptions.Timeout = d

	if authFlag != "" {
		auth, err := parseAuth(authFlag)
		if err != nil {
			return nil, nil, nil, err
		}
		exchangeOptions.Auth = auth
	}

	switch verifyFlag {
	case "yes":
		exchangeOptions.SkipVerify = false
	case "no":
		exchangeOptions.SkipVerify = true
	default:
		return nil, nil, nil, errors.Errorf("Value of --verify must be \"yes\" or \"no\": %s", verifyFlag)
	}

	outputOptions.EnableColor = term.stdoutIsTerminal

	optionSet := &OptionSet{
		InputOptions:    inputOptions,
		ExchangeOptions: exchangeOptions,
		OutputOptions:   outputOptions,
	}
	return flagSet.Args(), flagSet, optionSet, nil
}

func parsePrintFlag(printFlag string, term terminalInfo, outputOptions *output.Options) error {
	if printFlag == "\000" {
		// --print is not specified
		if term.stdoutIsTerminal {
			outputOptions.PrintResponseHeader = true
			outputOptions.PrintResponseBody = true
		} else {
			outputOptions.PrintResponseBody = true
		}
		return nil
	}
	for _, c := range printFlag {
		switch c {
		case 'H':
			outputOptions.PrintRequestHeader = true
		case 'B':
			outputOptions.PrintRequestBody = true
		case 'h':
			outputOptions.PrintResponseHeader = true
		case 'b':
			outputOptions.PrintResponseBody = true
		default:
			return errors.Errorf("Invalid char in --print value (must be consist of HBhb): %c", c)
		}
	}
	return nil
}

func parseDurationOrSeconds(timeout string) (time.Duration, error) {
	if reNumber.MatchString(timeout) {
		timeout += "s"
	}
	d, err := time.ParseDuration(timeout)
	if err != nil {
		return time.Duration(0), errors.Errorf("Value of --timeout must be a number or duration string: %v", timeout)
	}
	return d, nil
}

func parseAuth(authFlag string) (exchange.AuthOptions, error) {
	auth := exchange.AuthOptions{Enabled: true}
	if i := strings.IndexByte(authFlag, ':'); i >= 0 {
		auth.UserName = authFlag[:i]
		auth.Password = authFlag[i+1:]
		return auth, nil
	}
	auth.UserName = authFlag
	password, err := askPassword()
	if err != nil {
		return exchange.AuthOptions{}, err
	}
	auth.Password = password
	return auth, nil
}
