package mgf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/msp2mgf/pkg/core"
)

func TestEncoderBlock(t *testing.T) {
	var buf bytes.Buffer
	enc := Encoder{}

	require.NoError(t, enc.Begin(&buf, core.Header{
		Title:       "PEPTIDEKR",
		Scan:        7,
		PrecursorMZ: "552.7845",
		Charge:      2,
	}))
	require.NoError(t, enc.Peak(&buf, "101.0713", "2500"))
	require.NoError(t, enc.Peak(&buf, "147.1128", ""))
	require.NoError(t, enc.End(&buf))

	want := "BEGIN IONS\n" +
		"TITLE=PEPTIDEKR\n" +
		"RAWSCANS=7\n" +
		"SCANS=7\n" +
		"RTINSECONDS=7\n" +
		"PEPMASS=552.7845\n" +
		"CHARGE=2+\n" +
		"101.0713 2500\n" +
		"147.1128\n" +
		"END IONS\n" +
		"\n"
	assert.Equal(t, want, buf.String())
	assert.Equal(t, ".mgf", enc.Ext())
}
