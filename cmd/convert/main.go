package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/navidrome/podium/consts"
	"github.com/navidrome/podium/dataset"
	"github.com/navidrome/podium/db"
)

func main() {
	csvPath := flag.String("csv", consts.DataFile, "Path to the medal CSV file")
	destPath := flag.String("dest", "", "Destination SQLite database (required)")
	flag.Parse()

	if *destPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(*csvPath, *destPath); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(csvPath, destPath string) error {
	if _, err := os.Stat(destPath); err == nil {
		return fmt.Errorf("destination database already exists: %s", destPath)
	}

	ds, err := dataset.LoadCSV(csvPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", csvPath, err)
	}
	log.Printf("Read %d medal records from %s (%d dropped)", ds.Len(), csvPath, ds.Dropped())

	if err := os.MkdirAll(filepath.Dir(destPath), consts.DirPermissions); err != nil {
		return fmt.Errorf("creating destination folder: %w", err)
	}

	log.Printf("Creating snapshot database: %s", destPath)
	dbConn, err := db.OpenDB(destPath)
	if err != nil {
		return fmt.Errorf("creating snapshot database: %w", err)
	}
	defer func() { _ = dbConn.Close() }()

	n, err := db.SaveRecords(dbConn, ds)
	if err != nil {
		return fmt.Errorf("saving records: %w", err)
	}
	log.Printf("Imported %d rows", n)
	return nil
}
