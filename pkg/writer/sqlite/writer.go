// Package sqlite provides a SQLite scan index of the records written to MGF
package sqlite

import (
	"database/sql"
	"strings"
	"time"

	"github.com/gravitational/trace"
	_ "github.com/mattn/go-sqlite3"
)

const (
	// Date format for HeaderTable (ISO 8601)
	headerDateFormat = "2006-01-02"
)

// Entry is one row of the scan index.
type Entry struct {
	Scan        int
	Sequence    string
	Charge      int
	PrecursorMZ string
	Mods        string
	OutputFile  string
}

// Writer handles writing scan index rows to a SQLite database file
type Writer struct {
	db         *sql.DB
	tx         *sql.Tx
	outputPath string
	sourcePath string
	scanStmt   *sql.Stmt
	rows       int
	closed     bool
}

// NewWriter creates (or truncates) the index database at outputPath.
func NewWriter(outputPath, sourcePath string) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, trace.Wrap(err, "failed to open database")
	}

	w := &Writer{
		db:         db,
		outputPath: outputPath,
		sourcePath: sourcePath,
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if err := w.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

// createTables creates the required database schema
func (w *Writer) createTables() error {
	schema := `
	DROP TABLE IF EXISTS ScanTable;
	DROP TABLE IF EXISTS HeaderTable;

	CREATE TABLE ScanTable (
		ScanId INTEGER PRIMARY KEY,
		Sequence TEXT NOT NULL,
		Charge INTEGER NOT NULL,
		PrecursorMZ TEXT,
		Mods TEXT,
		OutputFile TEXT
	);

	CREATE INDEX ScanTableSequence ON ScanTable(Sequence);

	CREATE TABLE HeaderTable (
		CreationDate TEXT,
		SourceFile TEXT,
		ScanCount INTEGER
	);
	`

	if _, err := w.db.Exec(schema); err != nil {
		return trace.Wrap(err, "failed to create tables")
	}
	return nil
}

// prepareStatements opens the insert transaction and prepares the row statement
func (w *Writer) prepareStatements() error {
	var err error

	w.tx, err = w.db.Begin()
	if err != nil {
		return trace.Wrap(err, "failed to begin transaction")
	}

	w.scanStmt, err = w.tx.Prepare(`
		INSERT INTO ScanTable (
			ScanId, Sequence, Charge, PrecursorMZ, Mods, OutputFile
		) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		w.tx.Rollback()
		return trace.Wrap(err, "failed to prepare scan statement")
	}

	return nil
}

// WriteEntry adds one emitted record to the index
func (w *Writer) WriteEntry(e Entry) error {
	if w.closed {
		return trace.Errorf("scan index %s is closed", w.outputPath)
	}
	_, err := w.scanStmt.Exec(
		e.Scan,
		e.Sequence,
		e.Charge,
		e.PrecursorMZ,
		strings.Trim(e.Mods, `"`),
		e.OutputFile,
	)
	if err != nil {
		return trace.Wrap(err, "failed to insert scan %d", e.Scan)
	}
	w.rows++
	return nil
}

// Rows returns the number of entries written so far
func (w *Writer) Rows() int {
	return w.rows
}

// Finalize writes the header row, commits and closes the database. It is
// safe to call more than once.
func (w *Writer) Finalize() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if w.scanStmt != nil {
		w.scanStmt.Close()
	}

	_, err := w.tx.Exec(`
		INSERT INTO HeaderTable (CreationDate, SourceFile, ScanCount)
		VALUES (?, ?, ?)
	`, time.Now().Format(headerDateFormat), w.sourcePath, w.rows)
	if err != nil {
		w.tx.Rollback()
		w.db.Close()
		return trace.Wrap(err, "failed to insert header")
	}

	if err := w.tx.Commit(); err != nil {
		w.db.Close()
		return trace.Wrap(err, "failed to commit scan index")
	}

	if err := w.db.Close(); err != nil {
		return trace.Wrap(err, "failed to close database")
	}

	return nil
}

// Close closes the database connection (alias for Finalize)
func (w *Writer) Close() error {
	return w.Finalize()
}
