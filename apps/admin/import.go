package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/hazekiller/gyan/core/exam"
)

// importResults upserts the results of examID read from the CSV at path.
func (cli *commandLine) importResults(examID int, path string) error {
	f, err := openFileFunc(path)
	if err != nil {
		return errors.Wrap(err, "opening results file")
	}
	defer f.Close()

	records, err := exam.ReadResultsCSV(f)
	if err != nil {
		return err
	}
	n, err := cli.reportSvc.Import(context.Background(), cli.importer, examID, records)
	if err != nil {
		return err
	}
	cli.printf("%d results imported\n", n)
	return nil
}
