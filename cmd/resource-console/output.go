package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/agentuity/resource-console/view"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

var errBadOutput = errors.New("unknown output format")

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func checkOutput(format string) error {
	switch strings.ToLower(format) {
	case outputTable, outputJSON, outputYAML:
		return nil
	}
	return errors.Wrapf(errBadOutput, "%q (want table, json or yaml)", format)
}

// write prints page as a table, or its records as JSON or YAML. YAML goes
// through JSON first so both use the API's field names.
func write(w io.Writer, page view.Page, format string) error {
	format = strings.ToLower(format)
	if format == outputTable || format == "" {
		page.Render(w)
		return nil
	}
	dp, ok := page.(view.DataPage)
	if !ok {
		return errors.Newf("%s has no records to print as %s", page.Title(), format)
	}
	data, err := dp.Data()
	if err != nil {
		return err
	}
	buf, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding json")
	}
	if format == outputJSON {
		_, err = fmt.Fprintln(w, string(buf))
		return err
	}
	var generic any
	if err := json.Unmarshal(buf, &generic); err != nil {
		return errors.Wrap(err, "decoding json")
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return errors.Wrap(err, "encoding yaml")
	}
	return enc.Close()
}
