package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chatnary/chatnary/internal/index"
	"github.com/chatnary/chatnary/internal/library"
)

func newIndexCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Rebuild the search index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, indexer, err := openIndex(e)
			if err != nil {
				return err
			}
			defer db.Close()

			stats, err := indexer.IndexAll()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d indexed, %d unchanged, %d removed\n", stats.Indexed, stats.Unchanged, stats.Removed)
			return nil
		},
	}
}

func newImportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Copy documents into the library and index them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, indexer, err := openIndex(e)
			if err != nil {
				return err
			}
			defer db.Close()

			lib := library.New(e.cfg.LibraryPath)
			for _, src := range args {
				rel, err := lib.Import(src)
				if err != nil {
					return err
				}
				if _, err := indexer.IndexFile(lib.Abs(rel)); err != nil {
					return fmt.Errorf("index %s: %w", rel, err)
				}
				e.logger.Info("imported", "src", src, "path", rel)
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", src, rel)
			}
			return nil
		},
	}
}

func newRemoveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <document>...",
		Short: "Delete documents from the library and the index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, indexer, err := openIndex(e)
			if err != nil {
				return err
			}
			defer db.Close()

			lib := library.New(e.cfg.LibraryPath)
			for _, rel := range args {
				rel = filepath.ToSlash(filepath.Clean(rel))
				if err := lib.Remove(rel); err != nil {
					return fmt.Errorf("remove %s: %w", rel, err)
				}
				if err := indexer.RemoveFile(lib.Abs(rel)); err != nil {
					return fmt.Errorf("unindex %s: %w", rel, err)
				}
				e.logger.Info("removed", "path", rel)
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", rel)
			}
			return nil
		},
	}
}

func openIndex(e *env) (*index.DB, *index.Indexer, error) {
	db, err := index.Open(filepath.Join(e.cfg.StateDir(), "index.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("open index: %w", err)
	}
	return db, index.NewIndexer(db, library.New(e.cfg.LibraryPath), e.logger), nil
}
