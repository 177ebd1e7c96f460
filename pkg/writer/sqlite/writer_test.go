package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scans.db")

	w, err := NewWriter(path, "lib.msp")
	require.NoError(t, err)

	require.NoError(t, w.WriteEntry(Entry{Scan: 2, Sequence: "PEPTIDEKR", Charge: 2, PrecursorMZ: "552.78", Mods: "0", OutputFile: "lib.mgf"}))
	require.NoError(t, w.WriteEntry(Entry{Scan: 5, Sequence: "LLLLSEFKR", Charge: 3, PrecursorMZ: "321.2", Mods: `"1(0,L,Oxidation)"`, OutputFile: "lib_0.mgf"}))
	assert.Equal(t, 2, w.Rows())
	require.NoError(t, w.Finalize())
	require.NoError(t, w.Close())
	require.Error(t, w.WriteEntry(Entry{Scan: 6}))

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM ScanTable`).Scan(&count))
	assert.Equal(t, 2, count)

	var seq, mods, file string
	require.NoError(t, db.QueryRow(`SELECT Sequence, Mods, OutputFile FROM ScanTable WHERE ScanId = 5`).Scan(&seq, &mods, &file))
	assert.Equal(t, "LLLLSEFKR", seq)
	assert.Equal(t, "1(0,L,Oxidation)", mods)
	assert.Equal(t, "lib_0.mgf", file)

	var source string
	var scans int
	require.NoError(t, db.QueryRow(`SELECT SourceFile, ScanCount FROM HeaderTable`).Scan(&source, &scans))
	assert.Equal(t, "lib.msp", source)
	assert.Equal(t, 2, scans)
}
