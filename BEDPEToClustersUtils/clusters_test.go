package bedpetoclustersutils

import (
	"encoding/json"
	"errors"
	"io/ioutil"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBinRange(t *testing.T) {
	tests := []struct {
		name     string
		record   InteractionRecord
		expected BinRange
	}{
		{
			name: "anchors aligned on bin boundaries",
			record: InteractionRecord{
				Chrom1: "chr1", Start1: 10000, End1: 20000,
				Chrom2: "chr1", Start2: 30000, End2: 50000,
			},
			expected: BinRange{RowMin: 1, RowMax: 1, ColMin: 3, ColMax: 4},
		},
		{
			name: "first bin",
			record: InteractionRecord{
				Chrom1: "chr1", Start1: 0, End1: 10000,
				Chrom2: "chr1", Start2: 10000, End2: 20000,
			},
			expected: BinRange{RowMin: 0, RowMax: 0, ColMin: 1, ColMax: 1},
		},
		{
			name: "unaligned anchor straddles two bins",
			record: InteractionRecord{
				Chrom1: "chr1", Start1: 15000, End1: 25000,
				Chrom2: "chr1", Start2: 5000, End2: 5001,
			},
			expected: BinRange{RowMin: 1, RowMax: 2, ColMin: 0, ColMax: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.record.ToBinRange(10000))
		})
	}
}

func TestToBinRangeNonPositiveResolution(t *testing.T) {
	record := InteractionRecord{
		Chrom1: "chr1", Start1: 10000, End1: 20000,
		Chrom2: "chr1", Start2: 30000, End2: 50000,
	}

	for _, resolution := range []int{0, -10000} {
		binRange := record.ToBinRange(resolution)

		assert.Equal(t, BinRange{RowMin: 0, RowMax: -1, ColMin: 0, ColMax: -1}, binRange)
		assert.Empty(t, binRange.Expand())
	}
}

func TestExpand(t *testing.T) {
	cluster := BinRange{RowMin: 1, RowMax: 1, ColMin: 3, ColMax: 4}.Expand()

	assert.Equal(t, Cluster{
		Pixel{Row: 1, Col: 3}: true,
		Pixel{Row: 1, Col: 4}: true,
	}, cluster)
}

func TestBedpeToClusters(t *testing.T) {
	records := []InteractionRecord{
		{Chrom1: "chr1", Start1: 10000, End1: 20000, Chrom2: "chr1", Start2: 30000, End2: 50000},
		{Chrom1: "chr1", Start1: 0, End1: 10000, Chrom2: "chr2", Start2: 0, End2: 10000},
		{Chrom1: "chr2", Start1: 20000, End1: 30000, Chrom2: "chr2", Start2: 20000, End2: 30000},
		{Chrom1: "chr1", Start1: 0, End1: 10000, Chrom2: "chr1", Start2: 0, End2: 10000},
	}

	clusters, err := BedpeToClusters(records, 10000)
	require.NoError(t, err)

	assert.Equal(t, []string{"chr1", "chr2"}, clusters.Chroms())

	require.Len(t, clusters["chr1"], 2)
	require.Len(t, clusters["chr2"], 1)

	assert.Equal(t, Cluster{
		Pixel{Row: 1, Col: 3}: true,
		Pixel{Row: 1, Col: 4}: true,
	}, clusters["chr1"][0])

	assert.Equal(t, Cluster{Pixel{Row: 0, Col: 0}: true}, clusters["chr1"][1])
	assert.Equal(t, Cluster{Pixel{Row: 2, Col: 2}: true}, clusters["chr2"][0])
}

func TestBedpeToClustersRejectsBadResolution(t *testing.T) {
	for _, resolution := range []int{0, -10000} {
		_, err := BedpeToClusters(nil, resolution)

		var paramErr *InvalidParameterError
		require.True(t, errors.As(err, &paramErr))
		assert.Equal(t, "resolution", paramErr.Param)
	}
}

func TestChromosomeKeysComeFromFirstAnchor(t *testing.T) {
	records := []InteractionRecord{
		{Chrom1: "chr1", Start1: 0, End1: 10000, Chrom2: "chr2", Start2: 0, End2: 10000},
	}

	clusters, err := BedpeToClusters(records, 10000)
	require.NoError(t, err)

	require.Contains(t, clusters, "chr1")
	assert.Empty(t, clusters["chr1"])
	assert.NotContains(t, clusters, "chr2")
}

func TestSaveClustersFormat(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "clusters.json")

	cluster := Cluster{Pixel{Row: 2, Col: 5}: true}
	require.NoError(t, SaveClusters([]Cluster{cluster}, fname))

	content, err := ioutil.ReadFile(fname)
	require.NoError(t, err)
	assert.Equal(t, "[[[2,5]]]", string(content))
}

func TestSaveClustersSortsPixels(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "clusters.json")

	cluster := Cluster{
		Pixel{Row: 1, Col: 4}: true,
		Pixel{Row: 1, Col: 3}: true,
		Pixel{Row: 0, Col: 9}: true,
	}

	require.NoError(t, SaveClusters([]Cluster{cluster}, fname))

	content, err := ioutil.ReadFile(fname)
	require.NoError(t, err)
	assert.Equal(t, "[[[0,9],[1,3],[1,4]]]", string(content))
}

func TestSaveClustersEmptyList(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "clusters.json")

	require.NoError(t, SaveClusters([]Cluster{}, fname))

	content, err := ioutil.ReadFile(fname)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(content))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "clusters.json.gz")

	clusters := []Cluster{
		{Pixel{Row: 1, Col: 3}: true, Pixel{Row: 1, Col: 4}: true},
		{Pixel{Row: 42, Col: 0}: true},
		{},
	}

	require.NoError(t, SaveClusters(clusters, fname))

	loaded, err := LoadClusters(Filename(fname))
	require.NoError(t, err)
	assert.Equal(t, clusters, loaded)
}

func TestLoadClustersAcceptsIntegralFloats(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "clusters.json")
	require.NoError(t, ioutil.WriteFile(fname, []byte("[[[2.0, 5]]]"), 0644))

	clusters, err := LoadClusters(Filename(fname))
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, Cluster{Pixel{Row: 2, Col: 5}: true}, clusters[0])
}

func TestLoadClustersRejectsFractionalCoords(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "clusters.json")
	require.NoError(t, ioutil.WriteFile(fname, []byte("[[[2.5, 5]]]"), 0644))

	_, err := LoadClusters(Filename(fname))

	var serErr *SerializationError
	require.True(t, errors.As(err, &serErr))
}

func TestLoadClustersRejectsBadPair(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "clusters.json")
	require.NoError(t, ioutil.WriteFile(fname, []byte("[[[1, 2, 3]]]"), 0644))

	_, err := LoadClusters(Filename(fname))

	var serErr *SerializationError
	require.True(t, errors.As(err, &serErr))
}

func TestNormalizeCoord(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected interface{}
	}{
		{"int", int(3), int(3)},
		{"int32", int32(-7), int(-7)},
		{"int64", int64(9), int(9)},
		{"uint32", uint32(7), int(7)},
		{"uint64", uint64(12), int(12)},
		{"float64", float64(1.25), float64(1.25)},
		{"float32", float32(2.5), float64(2.5)},
		{"integral json number", json.Number("42"), int(42)},
		{"fractional json number", json.Number("4.5"), float64(4.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normalized, err := NormalizeCoord(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, normalized)
		})
	}
}

func TestNormalizeCoordRejectsUnsupportedValues(t *testing.T) {
	for _, value := range []interface{}{"12", nil, []int{1}, uint64(math.MaxUint64)} {
		_, err := NormalizeCoord(value)

		var serErr *SerializationError
		require.True(t, errors.As(err, &serErr), "value %v should be rejected", value)
	}
}

func TestClustersToPixelSet(t *testing.T) {
	clusters := []Cluster{
		{Pixel{Row: 1, Col: 3}: true, Pixel{Row: 1, Col: 4}: true},
		{Pixel{Row: 1, Col: 4}: true, Pixel{Row: 2, Col: 4}: true},
	}

	assert.Equal(t, Cluster{
		Pixel{Row: 1, Col: 3}: true,
		Pixel{Row: 1, Col: 4}: true,
		Pixel{Row: 2, Col: 4}: true,
	}, ClustersToPixelSet(clusters))
}

func TestWriteClustersToCOOFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "pixels.coo")

	clusters := []Cluster{
		{Pixel{Row: 1, Col: 3}: true, Pixel{Row: 1, Col: 4}: true},
		{Pixel{Row: 1, Col: 4}: true, Pixel{Row: 2, Col: 4}: true},
	}

	require.NoError(t, WriteClustersToCOOFile(clusters, fname))

	content, err := ioutil.ReadFile(fname)
	require.NoError(t, err)
	assert.Equal(t, "1\t3\t1\n1\t4\t1\n2\t4\t1\n", string(content))
}
