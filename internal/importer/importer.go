// Package importer loads product records from CSV into a repository.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/pkg/errors"
	"github.com/rogerio-castellano/shelf-locator/internal/models"
	"github.com/rogerio-castellano/shelf-locator/internal/repo"
	"github.com/sirupsen/logrus"
)

// RowError describes a row that could not be stored. Row numbers are
// 1-based with the header counted as row 1.
type RowError struct {
	Row         int    `json:"row"`
	Pos         string `json:"pos,omitempty"`
	Description string `json:"description"`
}

type Result struct {
	Inserted int        `json:"inserted"`
	Updated  int        `json:"updated"`
	Errors   []RowError `json:"errors,omitempty"`
}

func (r Result) Failed() int { return len(r.Errors) }

type Importer struct {
	store repo.ProductRepository
	log   logrus.FieldLogger
}

func New(store repo.ProductRepository, log logrus.FieldLogger) *Importer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Importer{store: store, log: log.WithField("component", "importer")}
}

// ImportFile opens path and imports it.
func (im *Importer) ImportFile(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, errors.Wrap(err, "failed to open CSV file")
	}
	defer f.Close()
	return im.Import(ctx, f)
}

// Import upserts every row keyed by pos. Rows without a pos, or that the
// store rejects, are reported in Result.Errors and do not stop the import.
func (im *Importer) Import(ctx context.Context, r io.Reader) (Result, error) {
	rows, err := Parse(r)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for i, rec := range rows {
		rowNum := i + 2
		if rec.Pos == "" {
			res.Errors = append(res.Errors, RowError{Row: rowNum, Description: "missing pos"})
			continue
		}

		updated, err := im.store.Upsert(ctx, rec)
		if err != nil {
			im.log.WithError(err).WithField("row", rowNum).Warn("failed to store row")
			res.Errors = append(res.Errors, RowError{Row: rowNum, Pos: rec.Pos, Description: err.Error()})
			continue
		}
		if updated {
			res.Updated++
		} else {
			res.Inserted++
		}
	}

	im.log.WithFields(logrus.Fields{
		"inserted": res.Inserted,
		"updated":  res.Updated,
		"failed":   res.Failed(),
	}).Info("import finished")
	return res, nil
}

// Parse decodes CSV rows into records. Headers are matched
// case-insensitively, cells are trimmed, and an empty quantity cell decodes
// to nil.
func Parse(r io.Reader) ([]models.ProductRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV header")
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	if !contains(header, "pos") {
		return nil, fmt.Errorf("invalid CSV header: missing pos column")
	}

	dec, err := csvutil.NewDecoder(reader, header...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create CSV decoder")
	}
	dec.Map = func(field, _ string, _ any) string {
		return strings.TrimSpace(field)
	}

	var records []models.ProductRecord
	for {
		var rec models.ProductRecord
		err := dec.Decode(&rec)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "CSV read error at row %d", len(records)+2)
		}
		rec.ID = ""
		records = append(records, rec)
	}
	return records, nil
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
