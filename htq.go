package htq

import (
	"bufio"
	"os"

	"github.com/htq-cli/htq/exchange"
	"github.com/htq-cli/htq/flags"
	"github.com/htq-cli/htq/input"
	"github.com/htq-cli/htq/output"
	"github.com/pkg/errors"
)

func Main() error {
	args, flagSet, optionSet, err := flags.Parse(os.Args)
	if err != nil {
		return err
	}

	req, err := input.ParseArgs(args, os.Stdin, &optionSet.InputOptions)
	if _, ok := errors.Cause(err).(*input.UsageError); ok {
		flagSet.PrintUsage(os.Stderr)
		return err
	}
	if err != nil {
		return err
	}

	r, err := exchange.BuildHTTPRequest(req, &optionSet.ExchangeOptions)
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(os.Stdout)
	defer writer.Flush()
	printer := output.NewPrettyPrinter(output.PrettyPrinterConfig{
		Writer:      writer,
		EnableColor: optionSet.OutputOptions.EnableColor,
	})

	if optionSet.OutputOptions.PrintRequestHeader {
		if err := printer.PrintRequestLine(r); err != nil {
			return err
		}
		if err := printer.PrintHeader(r.Header); err != nil {
			return err
		}
	}
	if optionSet.OutputOptions.PrintRequestBody && r.GetBody != nil {
		body, err := r.GetBody()
		if err != nil {
			return err
		}
		if err := printer.PrintBody(body, r.Header.Get("Content-Type")); err != nil {
			return err
		}
	}
	writer.Flush()

	resp, err := exchange.SendRequest(r, &optionSet.ExchangeOptions)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if optionSet.OutputOptions.Download {
		fileWriter := output.NewFileWriter(r.URL, &optionSet.OutputOptions)
		return fileWriter.Download(resp)
	}

	if optionSet.OutputOptions.PrintResponseHeader {
		if err := printer.PrintStatusLine(resp.Proto, resp.Status, resp.StatusCode); err != nil {
			return err
		}
		if err := printer.PrintHeader(resp.Header); err != nil {
			return err
		}
		writer.Flush()
	}
	if optionSet.OutputOptions.PrintResponseBody {
		if err := printer.PrintBody(resp.Body, resp.Header.Get("Content-Type")); err != nil {
			return err
		}
	}

	return nil
}
