// Package export writes the visible grid as CSV to a file, an S3 object, or
// a presigned upload URL.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dmitrijs2005/taxdesk/internal/client/models"
	"github.com/dmitrijs2005/taxdesk/internal/client/view"
)

// Sink stores one rendered export and reports where it went.
type Sink interface {
	Put(ctx context.Context, body io.Reader, size int64) (string, error)
}

// ContentType is sent with uploaded exports.
const ContentType = "text/csv"

// WriteCSV writes a header row and one row per record, cells rendered the way
// the grid shows them.
func WriteCSV(w io.Writer, rows []models.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(view.Titles()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(view.Row(r)); err != nil {
			return fmt.Errorf("write record %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Export renders rows and hands them to sink.
func Export(ctx context.Context, sink Sink, rows []models.Record) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return "", err
	}
	loc, err := sink.Put(ctx, &buf, int64(buf.Len()))
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	return loc, nil
}
