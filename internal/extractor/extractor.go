// Package extractor reads the line-delimited JSON corpus into a dataset.
package extractor

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"textqa-enrich/internal/aggregator"
	"textqa-enrich/internal/dataset"
	"textqa-enrich/internal/logger"
	"textqa-enrich/internal/types"
)

// DefaultLimit is how many records are taken from the corpus unless told otherwise.
const DefaultLimit = 100

// corpusLine is the subset of a corpus record we keep. Pointers let null and a missing key
// both read as "".
type corpusLine struct {
	Text    *string `json:"text"`
	Summary *string `json:"summary"`
}

// ParseError reports the first malformed line of the corpus.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("corpus line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Extract reads up to limit records (limit <= 0 reads everything). Blank lines are skipped.
// Any malformed line fails the whole extraction.
func Extract(ctx context.Context, r io.Reader, limit int) ([]types.Record, error) {
	br := bufio.NewReader(r)
	var out []types.Record
	for lineNum := 1; limit <= 0 || len(out) < limit; lineNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line, err := br.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read corpus: %w", err)
		}
		eof := errors.Is(err, io.EOF)

		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			rec, perr := parseLine(line)
			if perr != nil {
				return nil, &ParseError{Line: lineNum, Err: perr}
			}
			out = append(out, rec)
		}
		if eof {
			break
		}
	}
	return out, nil
}

func parseLine(line []byte) (types.Record, error) {
	if line[0] != '{' {
		return types.Record{}, fmt.Errorf("expected a JSON object")
	}
	var cl corpusLine
	if err := json.Unmarshal(line, &cl); err != nil {
		return types.Record{}, err
	}
	var rec types.Record
	if cl.Text != nil {
		rec.Text = normalizeNewlines(*cl.Text)
	}
	if cl.Summary != nil {
		rec.Summary = normalizeNewlines(*cl.Summary)
	}
	return rec, nil
}

// normalizeNewlines turns CRLF into LF; the CSV store cannot keep CR in quoted fields.
func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// ExtractFile reads the corpus at in and, as its last step, saves the dataset to out,
// replacing whatever was there.
func ExtractFile(ctx context.Context, in, out string, limit int) (types.Dataset, error) {
	log := logger.New().WithField("component", "extractor").WithField("corpus", in)

	f, err := os.Open(in)
	if err != nil {
		return types.Dataset{}, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	records, err := Extract(ctx, f, limit)
	if err != nil {
		log.WithError(err).Error("extraction failed")
		return types.Dataset{}, err
	}
	ds := types.NewDataset(records)

	lang, conf := aggregator.DominantLanguage(ds.Texts())
	log.WithFields(map[string]interface{}{
		"rows":          ds.Len(),
		"limit":         limit,
		"detected_lang": lang,
		"lang_share":    fmt.Sprintf("%.2f", conf),
	}).Info("corpus extracted")

	if err := dataset.Save(ctx, out, ds); err != nil {
		return types.Dataset{}, fmt.Errorf("save dataset: %w", err)
	}
	log.WithField("dataset_path", out).Info("dataset written")
	return ds, nil
}
