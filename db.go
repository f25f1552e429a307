package gbnp

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// FirmwareDB persists menu firmware blobs between runs. At most one of them
// is current at any time.
type FirmwareDB struct {
	db *sql.DB
}

// NewFirmwareDB opens or creates the database in file.
func NewFirmwareDB(file string) (*FirmwareDB, error) {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS firmware (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, data BLOB NOT NULL, current INTEGER NOT NULL DEFAULT 0)"); err != nil {
		db.Close()
		return nil, err
	}

	return &FirmwareDB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *FirmwareDB) Close() error {
	return db.db.Close()
}

// Load stores f and makes it the current firmware.
func (db *FirmwareDB) Load(f *Firmware) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}

	if _, err = tx.Exec("UPDATE firmware SET current = 0"); err != nil {
		tx.Rollback()
		return err
	}

	if _, err = tx.Exec("INSERT OR REPLACE INTO firmware (sha1, data, current) VALUES (?, ?, 1)", f.SHA1(), f.Bytes()); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// Current returns the current firmware or ErrNoFirmware.
func (db *FirmwareDB) Current() (*Firmware, error) {
	var data []byte
	switch err := db.db.QueryRow("SELECT data FROM firmware WHERE current = 1").Scan(&data); err {
	case sql.ErrNoRows:
		return nil, ErrNoFirmware
	case nil:
		return NewFirmware(data)
	default:
		return nil, err
	}
}

// Clear forgets every stored firmware.
func (db *FirmwareDB) Clear() error {
	if _, err := db.db.Exec("DELETE FROM firmware"); err != nil {
		return err
	}
	return nil
}
