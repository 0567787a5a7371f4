package catalogue

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	test_test "github.com/wavesense/n2k/test"
)

// testFS loads the sample catalogue and manifest fixtures from testdata/,
// shared across the happy-path tests below.
func testFS(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"pgns.json":     {Data: test_test.LoadBytes(t, "pgns.json")},
		"manifest.json": {Data: test_test.LoadBytes(t, "manifest.json")},
	}
}

func TestLoad(t *testing.T) {
	doc, err := Load(testFS(t), "pgns.json")
	require.NoError(t, err)
	require.Len(t, doc.PGNs, 2)
	assert.Equal(t, uint32(127251), doc.PGNs[0].PGN)
	assert.Equal(t, PacketTypeSingle, doc.PGNs[0].Type)
	assert.Equal(t, PacketTypeFast, doc.PGNs[1].Type)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(testFS(t), "missing.json")
	assert.Error(t, err)
}

func TestLoadManifest(t *testing.T) {
	m, err := LoadManifest(testFS(t), "manifest.json")
	require.NoError(t, err)
	require.Len(t, m.PGNs, 1)
	assert.Equal(t, uint32(127251), m.PGNs[0].ID)
}

func TestPGNs_FilterByManifest(t *testing.T) {
	doc, err := Load(testFS(t), "pgns.json")
	require.NoError(t, err)
	m, err := LoadManifest(testFS(t), "manifest.json")
	require.NoError(t, err)

	filtered := doc.PGNs.FilterByManifest(m)
	require.Len(t, filtered, 1)
	assert.Equal(t, "rateOfTurn", filtered[0].ID)
}

func TestFieldType_UnmarshalJSON_RejectsUnknown(t *testing.T) {
	badDoc := `{"PGNs": [{"PGN": 1, "Id": "bad", "Type": "Single",
		"Fields": [{"Order": 1, "Id": "x", "FieldType": "NOT_REAL"}]}]}`
	fs := fstest.MapFS{"bad.json": {Data: []byte(badDoc)}}
	_, err := Load(fs, "bad.json")
	assert.Error(t, err)
}

func TestPacketType_UnmarshalJSON_RejectsUnknown(t *testing.T) {
	badDoc := `{"PGNs": [{"PGN": 1, "Id": "bad", "Type": "Weird", "Fields": []}]}`
	fs := fstest.MapFS{"bad.json": {Data: []byte(badDoc)}}
	_, err := Load(fs, "bad.json")
	assert.Error(t, err)
}
