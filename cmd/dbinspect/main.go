// Package main inspects a Lampstand data directory: tag database
// contents plus the raw keys in the settings store. Read-only.
//
// Usage:
//
//	LAMPSTAND_DATA_PATH=~/lampstand go run ./cmd/dbinspect
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"

	"github.com/lampstandapp/lampstand-server/internal/store/sqlite"
)

func main() {
	dataPath := os.Getenv("LAMPSTAND_DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/lampstand")
	}

	fmt.Println("=== Lampstand Data Inspection ===")
	fmt.Println()

	inspectTagDB(filepath.Join(dataPath, "lampstand.db"))
	fmt.Println()
	inspectSettings(filepath.Join(dataPath, "settings"))
}

func inspectTagDB(path string) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	st, err := sqlite.Open(path, logger)
	if err != nil {
		log.Fatalf("Failed to open tag database: %v", err)
	}
	defer st.Close()

	ctx := context.Background()

	tags, err := st.ListTags(ctx)
	if err != nil {
		log.Fatalf("Failed to list tags: %v", err)
	}
	counts, err := st.GlobalTagCounts(ctx)
	if err != nil {
		log.Fatalf("Failed to count assignments: %v", err)
	}

	totalAssignments := 0
	for _, c := range counts {
		totalAssignments += c
	}

	fmt.Printf("Tags: %d (assignments: %d)\n", len(tags), totalAssignments)
	for _, tag := range tags {
		lastUsed := "never"
		if tag.LastUsedAt != nil {
			lastUsed = tag.LastUsedAt.Format("2006-01-02 15:04")
		}
		fmt.Printf("  %-30s verses=%-5d groups=%d last_used=%s\n",
			tag.Title, counts[tag.ID], len(tag.GroupIDs), lastUsed)
	}

	mods, err := st.ListModules(ctx)
	if err != nil {
		log.Fatalf("Failed to list modules: %v", err)
	}
	fmt.Printf("Modules: %d\n", len(mods))
	for _, m := range mods {
		fmt.Printf("  %-8s %s (%s), installed %s\n",
			m.ID, m.Description, m.Language, m.InstalledAt.Format("2006-01-02"))
	}
}

func inspectSettings(path string) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		fmt.Printf("Settings store unavailable: %v\n", err)
		return
	}
	defer db.Close()

	fmt.Println("Settings keys:")
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())
			// Pairing secrets stay opaque.
			if key == "pairing:secret" {
				fmt.Printf("  %-20s <redacted, %d bytes>\n", key, item.ValueSize())
				continue
			}
			err := item.Value(func(val []byte) error {
				fmt.Printf("  %-20s %s\n", key, val)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to iterate settings: %v", err)
	}
}
