package gbnp

import (
	"path/filepath"
	"testing"

	"github.com/bodgit/gbnp/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFirmware(t *testing.T) {
	for _, n := range []int{0, layout.HeaderEnd - 1, layout.PayloadStart + 1} {
		_, err := NewFirmware(make([]byte, n))
		assert.ErrorIs(t, err, ErrFirmwareSize, "%d bytes", n)
	}

	b := make([]byte, layout.PayloadStart)
	f, err := NewFirmware(b)
	require.NoError(t, err)
	assert.Equal(t, layout.PayloadStart, f.Size())

	b[0] = 0xff
	assert.Equal(t, byte(0), f.Bytes()[0])

	f, err = NewFirmware([]byte("abc" + string(make([]byte, layout.HeaderEnd))))
	require.NoError(t, err)
	assert.Len(t, f.SHA1(), 40)
}

func TestFirmwareDB(t *testing.T) {
	db, err := NewFirmwareDB(filepath.Join(t.TempDir(), "gbnp.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Current()
	assert.ErrorIs(t, err, ErrNoFirmware)

	first := makeFirmware(t)
	require.NoError(t, db.Load(first))

	f, err := db.Current()
	require.NoError(t, err)
	assert.Equal(t, first.SHA1(), f.SHA1())
	assert.Equal(t, first.Bytes(), f.Bytes())

	b := append([]byte(nil), first.Bytes()...)
	b[layout.HeaderEnd] = 0
	second, err := NewFirmware(b)
	require.NoError(t, err)
	require.NoError(t, db.Load(second))

	f, err = db.Current()
	require.NoError(t, err)
	assert.Equal(t, second.SHA1(), f.SHA1())

	// Loading an already stored firmware makes it current again
	require.NoError(t, db.Load(first))
	f, err = db.Current()
	require.NoError(t, err)
	assert.Equal(t, first.SHA1(), f.SHA1())

	require.NoError(t, db.Clear())
	_, err = db.Current()
	assert.ErrorIs(t, err, ErrNoFirmware)
}

func TestFirmwareDBPersists(t *testing.T) {
	file := filepath.Join(t.TempDir(), "gbnp.db")

	db, err := NewFirmwareDB(file)
	require.NoError(t, err)
	require.NoError(t, db.Load(makeFirmware(t)))
	require.NoError(t, db.Close())

	// The database lives at exactly the given path
	assert.FileExists(t, file)

	db, err = NewFirmwareDB(file)
	require.NoError(t, err)
	defer db.Close()

	f, err := db.Current()
	require.NoError(t, err)
	assert.Equal(t, makeFirmware(t).SHA1(), f.SHA1())
}
