package catalog

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// RequiredColumns lists the columns every catalog source must provide
var RequiredColumns = []string{"title", "author", "category", "language", "description", "tags", "rating", "year", "pages"}

// Loader reads a catalog file and produces a normalized Corpus
type Loader struct {
	path string
}

// NewLoader creates a new catalog loader
func NewLoader(path string) *Loader {
	return &Loader{
		path: path,
	}
}

// Path returns the source file the loader reads
func (l *Loader) Path() string {
	return l.path
}

// Load loads and normalizes records from a CSV, JSONL or Parquet file
func (l *Loader) Load() (Corpus, error) {
	info, err := os.Stat(l.path)
	if err != nil {
		return nil, sourceError(l.path, "catalog file not found", err)
	}
	if info.IsDir() {
		return nil, sourceError(l.path, "catalog path is a directory", nil)
	}

	var raws []rawRecord
	ext := strings.ToLower(filepath.Ext(l.path))
	switch ext {
	case ".csv":
		raws, err = l.loadCSV()
	case ".jsonl":
		raws, err = l.loadJSONL()
	case ".json":
		return nil, sourceError(l.path, "JSON array files are not supported, write one object per line to a .jsonl file", nil)
	case ".parquet":
		raws, err = l.loadParquet(info.Size())
	default:
		return nil, sourceError(l.path, fmt.Sprintf("unsupported file format %q (supported: .csv, .jsonl, .parquet)", ext), nil)
	}
	if err != nil {
		return nil, err
	}

	corpus := make(Corpus, 0, len(raws))
	seen := make(map[int]int, len(raws))
	for i, raw := range raws {
		if first, dup := seen[raw.ID]; dup {
			return nil, sourceError(l.path, fmt.Sprintf("duplicate identifier %d in rows %d and %d", raw.ID, first+1, i+1), nil)
		}
		seen[raw.ID] = i
		corpus = append(corpus, normalize(raw))
	}

	slog.Debug("Catalog normalized", "path", l.path, "records", len(corpus))

	return corpus, nil
}

// loadCSV reads a headered CSV file. Columns are matched by name, case-insensitively.
func (l *Loader) loadCSV() ([]rawRecord, error) {
	slog.Debug("Opening CSV file", "path", l.path)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, sourceError(l.path, "failed to open catalog file", err)
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReader(file))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, sourceError(l.path, "failed to read CSV header", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, name := range RequiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, sourceError(l.path, fmt.Sprintf("missing required column %q", name), nil)
		}
	}
	idCol, hasID := columns["book_id"]
	if !hasID {
		idCol, hasID = columns["id"]
	}

	var raws []rawRecord
	rowNum := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			return nil, sourceError(l.path, fmt.Sprintf("failed to parse CSV at line %d", rowNum), err)
		}

		cell := func(name string) string {
			idx := columns[name]
			if idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		optional := func(name string) *string {
			v := cell(name)
			if v == "" {
				return nil
			}
			return &v
		}

		raw := rawRecord{
			ID:          len(raws) + 1,
			Title:       cell("title"),
			Author:      optional("author"),
			Category:    cell("category"),
			Language:    cell("language"),
			Description: optional("description"),
			Tags:        optional("tags"),
		}

		if hasID && idCol < len(row) && strings.TrimSpace(row[idCol]) != "" {
			id, err := parseInt(row[idCol])
			if err != nil {
				return nil, sourceError(l.path, fmt.Sprintf("malformed identifier at line %d", rowNum), err)
			}
			raw.ID = id
		}
		if raw.Rating, err = parseFloat(cell("rating")); err != nil {
			return nil, sourceError(l.path, fmt.Sprintf("malformed rating at line %d", rowNum), err)
		}
		if raw.Year, err = parseInt(cell("year")); err != nil {
			return nil, sourceError(l.path, fmt.Sprintf("malformed year at line %d", rowNum), err)
		}
		if raw.Pages, err = parseInt(cell("pages")); err != nil {
			return nil, sourceError(l.path, fmt.Sprintf("malformed pages at line %d", rowNum), err)
		}

		raws = append(raws, raw)

		if rowNum%1000 == 0 {
			slog.Debug("Reading CSV", "rows_read", rowNum-1)
		}
	}

	slog.Debug("Finished reading CSV file", "total_records", len(raws))

	return raws, nil
}

// sourceRow is the shape of a JSONL line or Parquet row
type sourceRow struct {
	BookID      *int64   `json:"book_id" parquet:"book_id,optional"`
	ID          *int64   `json:"id" parquet:"id,optional"`
	Title       *string  `json:"title" parquet:"title,optional"`
	Author      *string  `json:"author" parquet:"author,optional"`
	Category    *string  `json:"category" parquet:"category,optional"`
	Language    *string  `json:"language" parquet:"language,optional"`
	Description *string  `json:"description" parquet:"description,optional"`
	Tags        *string  `json:"tags" parquet:"tags,optional"`
	Rating      *float64 `json:"rating" parquet:"rating,optional"`
	Year        *int64   `json:"year" parquet:"year,optional"`
	Pages       *int64   `json:"pages" parquet:"pages,optional"`
}

// toRaw converts a source row. Author, description and tags may be absent and
// receive defaults; the remaining fields must be present.
func (r sourceRow) toRaw(position int) (rawRecord, error) {
	missing := func(name string) error {
		return fmt.Errorf("missing required column %q", name)
	}
	switch {
	case r.Title == nil:
		return rawRecord{}, missing("title")
	case r.Category == nil:
		return rawRecord{}, missing("category")
	case r.Language == nil:
		return rawRecord{}, missing("language")
	case r.Rating == nil:
		return rawRecord{}, missing("rating")
	case r.Year == nil:
		return rawRecord{}, missing("year")
	case r.Pages == nil:
		return rawRecord{}, missing("pages")
	}

	raw := rawRecord{
		ID:          position,
		Title:       strings.TrimSpace(*r.Title),
		Author:      r.Author,
		Category:    strings.TrimSpace(*r.Category),
		Language:    strings.TrimSpace(*r.Language),
		Description: r.Description,
		Tags:        r.Tags,
		Rating:      *r.Rating,
		Year:        int(*r.Year),
		Pages:       int(*r.Pages),
	}
	switch {
	case r.BookID != nil:
		raw.ID = int(*r.BookID)
	case r.ID != nil:
		raw.ID = int(*r.ID)
	}
	return raw, nil
}

// loadJSONL loads records from a JSONL file, one object per line
func (l *Loader) loadJSONL() ([]rawRecord, error) {
	slog.Debug("Opening JSONL file", "path", l.path)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, sourceError(l.path, "failed to open catalog file", err)
	}
	defer file.Close()

	var raws []rawRecord
	scanner := bufio.NewScanner(file)

	// Descriptions can be long
	const maxCapacity = 1024 * 1024
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()

		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var row sourceRow
		if err := json.Unmarshal(line, &row); err != nil {
			return nil, sourceError(l.path, fmt.Sprintf("failed to parse JSON at line %d", lineNum), err)
		}

		raw, err := row.toRaw(len(raws) + 1)
		if err != nil {
			return nil, sourceError(l.path, fmt.Sprintf("invalid record at line %d", lineNum), err)
		}
		raws = append(raws, raw)
	}

	if err := scanner.Err(); err != nil {
		return nil, sourceError(l.path, "error reading catalog", err)
	}

	slog.Debug("Finished reading JSONL file", "total_records", len(raws), "total_lines", lineNum)

	return raws, nil
}

// loadParquet loads records from a Parquet file after checking its schema
func (l *Loader) loadParquet(size int64) ([]rawRecord, error) {
	slog.Debug("Opening Parquet file", "path", l.path)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, sourceError(l.path, "failed to open catalog file", err)
	}
	defer file.Close()

	pf, err := parquet.OpenFile(file, size)
	if err != nil {
		return nil, sourceError(l.path, "failed to open parquet", err)
	}

	schema := pf.Schema()
	for _, name := range RequiredColumns {
		if _, ok := schema.Lookup(name); !ok {
			return nil, sourceError(l.path, fmt.Sprintf("missing required column %q", name), nil)
		}
	}

	slog.Debug("Parquet file opened successfully", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[sourceRow](pf)
	defer reader.Close()

	var raws []rawRecord
	rows := make([]sourceRow, 128)

	for {
		n, err := reader.Read(rows)
		for i := 0; i < n; i++ {
			raw, convErr := rows[i].toRaw(len(raws) + 1)
			if convErr != nil {
				return nil, sourceError(l.path, fmt.Sprintf("invalid record at row %d", len(raws)+1), convErr)
			}
			raws = append(raws, raw)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, sourceError(l.path, "failed to read parquet rows", err)
		}
	}

	slog.Debug("Finished reading Parquet file", "total_records", len(raws))

	return raws, nil
}

var errEmptyCell = errors.New("empty value")

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errEmptyCell
	}
	return strconv.ParseFloat(s, 64)
}

// parseInt accepts integral floats such as "280.0", which spreadsheet exports produce
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errEmptyCell
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return int(f), nil
}
