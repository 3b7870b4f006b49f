// Package csvfile reads operator-exported delimited files into raw tables.
// Exports come from different spreadsheet tools, so the separator (comma or
// semicolon) is sniffed from the header line and a UTF-8 BOM is tolerated.
package csvfile

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"starcuak/internal/domain"
)

// ReadFile loads path as a delimited table. The first line is the header.
func ReadFile(path string) (domain.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

func Read(r io.Reader) (domain.RawTable, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(512)
	if err != nil && err != io.EOF {
		return domain.RawTable{}, err
	}
	sep := sniffSeparator(head)

	cr := csv.NewReader(br)
	cr.Comma = sep
	cr.FieldsPerRecord = -1 // rows may be ragged; the normalizer copes
	cr.LazyQuotes = true

	recs, err := cr.ReadAll()
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("parse csv: %w", err)
	}
	if len(recs) == 0 {
		return domain.RawTable{}, nil
	}

	headers := recs[0]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}
	return domain.RawTable{Headers: headers, Rows: recs[1:]}, nil
}

// sniffSeparator counts candidate separators on the first line; semicolon
// wins ties because comma-decimal locales quote commas inside fields.
func sniffSeparator(head []byte) rune {
	line := string(head)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if strings.Count(line, ";") >= strings.Count(line, ",") && strings.Contains(line, ";") {
		return ';'
	}
	return ','
}
