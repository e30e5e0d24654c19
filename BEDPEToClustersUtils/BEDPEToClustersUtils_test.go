package bedpetoclustersutils

import (
	"errors"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReturnWriterAndReaderRoundTrip(t *testing.T) {
	names := []string{
		"plain.txt",
		"compressed.txt.gz",
		"compressed.txt.bz2",
		"compressed.txt.bgz",
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			fname := filepath.Join(t.TempDir(), name)

			writer, err := ReturnWriter(fname)
			require.NoError(t, err)

			_, err = writer.Write([]byte("first line\nsecond line\n"))
			require.NoError(t, err)
			require.NoError(t, writer.Close())

			scanner, file, err := ReturnReader(fname)
			require.NoError(t, err)

			defer CloseFile(file)

			read := make([]string, 0, 2)

			for scanner.Scan() {
				read = append(read, scanner.Text())
			}

			require.NoError(t, scanner.Err())
			assert.Equal(t, []string{"first line", "second line"}, read)
		})
	}
}

func TestReturnReaderMissingFile(t *testing.T) {
	_, _, err := ReturnReader(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}

func TestFilenameSet(t *testing.T) {
	var fname Filename

	require.Error(t, fname.Set(filepath.Join(t.TempDir(), "missing.txt")))

	existing := filepath.Join(t.TempDir(), "existing.txt")
	require.NoError(t, ioutil.WriteFile(existing, []byte("ok\n"), 0644))

	require.NoError(t, fname.Set(existing))
	assert.Equal(t, existing, fname.String())
}

func TestArrayFlags(t *testing.T) {
	var flags ArrayFlags

	require.NoError(t, flags.Set("one"))
	require.NoError(t, flags.Set("two"))

	assert.Equal(t, ArrayFlags{"one", "two"}, flags)
	assert.Equal(t, "\tone\ttwo", flags.String())
}

func TestLoadChromSizes(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "test.chrom.sizes")
	require.NoError(t, ioutil.WriteFile(fname,
		[]byte("chr1\t249250621\nchr2\t243199373\n\n"), 0644))

	sizes, err := LoadChromSizes(Filename(fname))
	require.NoError(t, err)

	assert.Equal(t, map[string]int{
		"chr1": 249250621,
		"chr2": 243199373,
	}, sizes)
}

func TestLoadChromSizesBadLength(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "test.chrom.sizes")
	require.NoError(t, ioutil.WriteFile(fname, []byte("chr1\tlong\n"), 0644))

	_, err := LoadChromSizes(Filename(fname))

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 1, parseErr.Line)
}
