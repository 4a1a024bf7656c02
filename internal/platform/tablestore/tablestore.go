// Package tablestore persists datasets as flat CSV files. Each dataset is a
// header row plus data rows, loaded wholesale and rewritten wholesale on
// every mutation. Rewrites go through a temporary file and a rename so a
// reader never observes a half-written table.
package tablestore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const utf8BOM = "\ufeff"

// ErrUnreadable is returned by Update when the dataset file exists but cannot
// be read or parsed.
var ErrUnreadable = errors.New("dataset file unreadable")

// Table is the in-memory view of one dataset. Rows are aligned with Columns.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable returns an empty table with the given header.
func NewTable(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Col returns the index of the named column or -1.
func (t *Table) Col(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Field returns the value of column name in row i, or "" when the column is
// unknown.
func (t *Table) Field(i int, name string) string {
	idx := t.Col(name)
	if idx < 0 || i < 0 || i >= len(t.Rows) || idx >= len(t.Rows[i]) {
		return ""
	}
	return t.Rows[i][idx]
}

// Append adds one row. Missing trailing values are padded with "".
func (t *Table) Append(values ...string) error {
	if len(values) > len(t.Columns) {
		return fmt.Errorf("row has %d values, table has %d columns", len(values), len(t.Columns))
	}
	row := make([]string, len(t.Columns))
	copy(row, values)
	t.Rows = append(t.Rows, row)
	return nil
}

// Store hands out datasets rooted in a single directory. Datasets with the
// same name share one mutex so read-modify-write cycles inside a process
// are serialized.
type Store struct {
	dir    string
	logger zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a store rooted at dir. The directory is created lazily on the
// first write.
func New(dir string, logger zerolog.Logger) *Store {
	return &Store{
		dir:    dir,
		logger: logger.With().Str("component", "tablestore").Logger(),
		locks:  make(map[string]*sync.Mutex),
	}
}

// Dir returns the root directory of the store.
func (s *Store) Dir() string { return s.dir }

// Dataset returns the named dataset with the expected header.
func (s *Store) Dataset(name string, columns ...string) *Dataset {
	s.mu.Lock()
	lock, ok := s.locks[name]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[name] = lock
	}
	s.mu.Unlock()

	return &Dataset{
		name:    name,
		path:    filepath.Join(s.dir, name+".csv"),
		seqPath: filepath.Join(s.dir, name+".seq"),
		columns: append([]string(nil), columns...),
		lock:    lock,
		logger:  s.logger.With().Str("dataset", name).Logger(),
	}
}

// Dataset is one CSV-backed table.
type Dataset struct {
	name    string
	path    string
	seqPath string
	columns []string
	lock    *sync.Mutex
	logger  zerolog.Logger
}

// Name returns the dataset name.
func (d *Dataset) Name() string { return d.name }

// Path returns the CSV file path.
func (d *Dataset) Path() string { return d.path }

// Columns returns a copy of the expected header.
func (d *Dataset) Columns() []string { return append([]string(nil), d.columns...) }

// Load reads the whole dataset. A missing or unreadable file yields an empty
// table with the expected columns; the failure is logged and never returned.
// Columns are matched by name, so a file whose header is reordered or lacks
// a column still loads (missing columns read as ""). Columns the file has
// beyond the expected ones are kept after them.
func (d *Dataset) Load() *Table {
	t, err := d.read()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			d.logger.Debug().Str("path", d.path).Msg("dataset file missing, using empty table")
		} else {
			d.logger.Warn().Err(err).Str("path", d.path).Msg("dataset file unreadable, using empty table")
		}
		return NewTable(d.columns...)
	}
	return t
}

// read parses the dataset file. The returned error wraps fs.ErrNotExist
// when there is no file yet.
func (d *Dataset) read() (*Table, error) {
	f, err := os.Open(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, d.path, err)
	}

	t := NewTable(d.columns...)
	if len(records) == 0 {
		return t, nil
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	mapping := make([]int, len(d.columns))
	for i := range mapping {
		mapping[i] = -1
	}
	for j, h := range header {
		h = strings.TrimSpace(h)
		if i := t.Col(h); i >= 0 && i < len(d.columns) && mapping[i] < 0 {
			mapping[i] = j
			continue
		}
		t.Columns = append(t.Columns, h)
		mapping = append(mapping, j)
	}

	for _, rec := range records[1:] {
		row := make([]string, len(t.Columns))
		for i, j := range mapping {
			if j >= 0 && j < len(rec) {
				row[i] = rec[j]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Save rewrites the whole dataset.
func (d *Dataset) Save(t *Table) error {
	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	return writeAtomic(d.path, func(f *os.File) error {
		w := csv.NewWriter(f)
		if err := w.Write(t.Columns); err != nil {
			return err
		}
		if err := w.WriteAll(t.Rows); err != nil {
			return err
		}
		return w.Error()
	})
}

// Update loads the dataset, applies fn and saves the result, holding the
// dataset lock for the whole cycle. Nothing is written when fn fails or when
// an existing file cannot be read, so existing rows are never dropped.
func (d *Dataset) Update(fn func(t *Table) error) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	t, err := d.read()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		t = NewTable(d.columns...)
	case err != nil:
		d.logger.Error().Err(err).Str("path", d.path).Msg("refusing to rewrite unreadable dataset")
		return fmt.Errorf("load %s: %w", d.name, err)
	}
	if err := fn(t); err != nil {
		return err
	}
	if err := d.Save(t); err != nil {
		return fmt.Errorf("save %s: %w", d.name, err)
	}
	d.logger.Debug().Int("rows", t.Len()).Msg("dataset saved")
	return nil
}

// NextID returns the next identifier for t and persists it in the
// dataset's sequence file. The result is one past the larger of the stored
// counter and the largest id already present in idColumn, so ids never go
// backwards when rows are removed out of band. Call it from inside Update.
func (d *Dataset) NextID(t *Table, idColumn string) (int64, error) {
	var floor int64
	for i := range t.Rows {
		if id := ParseInt(t.Field(i, idColumn)); id > floor {
			floor = id
		}
	}

	counter, err := d.readSequence()
	if err != nil {
		return 0, err
	}
	if counter > floor {
		floor = counter
	}
	next := floor + 1

	if err := os.MkdirAll(filepath.Dir(d.seqPath), 0o755); err != nil {
		return 0, fmt.Errorf("create data directory: %w", err)
	}
	err = writeAtomic(d.seqPath, func(f *os.File) error {
		_, err := f.WriteString(strconv.FormatInt(next, 10) + "\n")
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("persist %s sequence: %w", d.name, err)
	}
	return next, nil
}

func (d *Dataset) readSequence() (int64, error) {
	raw, err := os.ReadFile(d.seqPath)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read %s sequence: %w", d.name, err)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		d.logger.Warn().Err(err).Str("path", d.seqPath).Msg("sequence file corrupt, falling back to table contents")
		return 0, nil
	}
	return n, nil
}

func writeAtomic(path string, write func(f *os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
