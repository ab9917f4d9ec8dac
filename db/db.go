package db

import (
	"database/sql"
	"fmt"
	"iter"
	"log"
	"net/url"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/navidrome/podium/dataset"
)

func init() {
	for _, ext := range []string{".db", ".sqlite", ".sqlite3"} {
		dataset.RegisterLoader(ext, LoadDataset)
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS medals (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	year VARCHAR NOT NULL DEFAULT '',
	city VARCHAR NOT NULL DEFAULT '',
	sport VARCHAR NOT NULL,
	discipline VARCHAR NOT NULL DEFAULT '',
	athlete VARCHAR NOT NULL,
	country VARCHAR NOT NULL,
	gender VARCHAR NOT NULL DEFAULT '',
	event VARCHAR NOT NULL DEFAULT '',
	medal VARCHAR NOT NULL
);
CREATE INDEX IF NOT EXISTS medals_country_sport ON medals(country, sport);
CREATE TABLE IF NOT EXISTS columns (
	position INTEGER PRIMARY KEY,
	name VARCHAR NOT NULL
);
`

func OpenDB(fileName string) (*sql.DB, error) {
	params := url.Values{
		"_journal_mode": []string{"WAL"},
		"_synchronous":  []string{"NORMAL"},
		"cache":         []string{"shared"},
		"_busy_timeout": []string{"5000"},
		"_txlock":       []string{"immediate"},
	}
	dataSourceName := fmt.Sprintf("file:%s?%s", fileName, params.Encode())
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, err
	}

	// Create schema if not exists
	_, err = db.Exec(schema)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(1)
	return db, nil
}

// OpenReadOnly opens an existing snapshot without creating or modifying it.
func OpenReadOnly(fileName string) (*sql.DB, error) {
	if _, err := os.Stat(fileName); err != nil {
		return nil, err
	}
	params := url.Values{
		"mode":          []string{"ro"},
		"_busy_timeout": []string{"5000"},
	}
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", fileName, params.Encode()))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// SaveRecords writes the dataset's columns and records in one transaction and
// returns the number of records inserted.
func SaveRecords(db *sql.DB, ds *dataset.Dataset) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM columns`); err != nil {
		return 0, err
	}
	for i, c := range ds.Columns() {
		if _, err := tx.Exec(`INSERT INTO columns (position, name) VALUES (?, ?)`, i, c); err != nil {
			return 0, err
		}
	}

	stmt, err := tx.Prepare(`
INSERT INTO medals (year, city, sport, discipline, athlete, country, gender, event, medal)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	var n int64
	for r := range ds.All() {
		_, err := stmt.Exec(r.Year, r.City, r.Sport, r.Discipline, r.Athlete, r.Country, r.Gender, r.Event, r.Medal)
		if err != nil {
			return n, fmt.Errorf("inserting record %d: %w", n+1, err)
		}
		n++
	}
	return n, tx.Commit()
}

// SelectColumns returns the source column names stored with the snapshot.
func SelectColumns(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT name FROM columns ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying columns: %w", err)
	}
	defer rows.Close()
	var cols []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// SelectRecords streams every stored record in insertion order. The sequence
// stops at the first scan error, which it yields.
func SelectRecords(db *sql.DB) (iter.Seq2[dataset.Record, error], error) {
	query := `
SELECT year, city, sport, discipline, athlete, country, gender, event, medal
FROM medals
ORDER BY id;`
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	return func(yield func(dataset.Record, error) bool) {
		defer rows.Close()
		for rows.Next() {
			var r dataset.Record
			err := rows.Scan(&r.Year, &r.City, &r.Sport, &r.Discipline, &r.Athlete, &r.Country, &r.Gender, &r.Event, &r.Medal)
			if err != nil {
				log.Printf("Error scanning row: %s", err)
				yield(dataset.Record{}, err)
				return
			}
			if !yield(r, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(dataset.Record{}, err)
		}
	}, nil
}

// ReadDataset builds a Dataset from an open snapshot.
func ReadDataset(db *sql.DB) (*dataset.Dataset, error) {
	cols, err := SelectColumns(db)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dataset.ErrDataUnavailable, err)
	}
	seq, err := SelectRecords(db)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dataset.ErrDataUnavailable, err)
	}
	var records []dataset.Record
	for r, err := range seq {
		if err != nil {
			return nil, fmt.Errorf("%w: reading records: %w", dataset.ErrDataUnavailable, err)
		}
		records = append(records, r)
	}
	if len(cols) == 0 {
		cols = dataset.KnownColumns
	}
	return dataset.New(cols, records), nil
}

// LoadDataset reads a SQLite snapshot written by SaveRecords.
func LoadDataset(path string) (*dataset.Dataset, error) {
	db, err := OpenReadOnly(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dataset.ErrDataUnavailable, err)
	}
	defer db.Close()

	ds, err := ReadDataset(db)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}
