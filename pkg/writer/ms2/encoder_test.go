package ms2

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/msp2mgf/pkg/core"
)

func TestEncoderScan(t *testing.T) {
	var buf bytes.Buffer
	enc := Encoder{}

	require.NoError(t, enc.Begin(&buf, core.Header{
		Title:           "PEPTIDEKR",
		Scan:            3,
		PrecursorMZ:     "552.78",
		Charge:          2,
		MolecularWeight: 1103.5,
	}))
	require.NoError(t, enc.Peak(&buf, "101.07", "2500"))
	require.NoError(t, enc.End(&buf))

	want := "S\t3\t3\t552.78\n" +
		"Z\t2\t1102.5\n" +
		"101.07 2500\n"
	assert.Equal(t, want, buf.String())
	assert.Equal(t, ".ms2", enc.Ext())
}
