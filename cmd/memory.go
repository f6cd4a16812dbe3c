/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/locwalk/internal"
	"github.com/valpere/locwalk/internal/config"
	"github.com/valpere/locwalk/internal/display"
	"github.com/valpere/locwalk/internal/store"
)

type storeFunc func(ctx context.Context, db *store.Store, args []string) error

// withStore opens the database named by --memory / LOCWALK_MEMORY for the
// duration of one subcommand.
func withStore(fn storeFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		path := v.GetString(config.KeyMemory)
		if path == "" {
			return fmt.Errorf("no database configured: set --%s or LOCWALK_MEMORY", config.KeyMemory)
		}
		db, err := store.New(path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		return fn(cmd.Context(), db, args)
	}
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Manage the translation memory",
	Long: `List, inspect, and clear the SQLite translation memory.

Every accepted or manually entered translation is remembered and offered as
the candidate the next time the same English text is walked.`,
}

var memoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List remembered translations, most recently used first",
	RunE: withStore(func(ctx context.Context, db *store.Store, _ []string) error {
		entries, err := db.ListMemory(ctx)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No entries in translation memory.")
			return nil
		}

		w := newTable()
		fmt.Fprintln(w, "ID\tKEY\tTARGET\tDECISION\tUSED\tLAST USED\tSOURCE\tTEXT")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
				e.ID, e.ResourceKey, e.TargetLang, e.Decision,
				e.UsageCount, e.LastUsed.Format("2006-01-02 15:04"),
				display.Truncate(e.SourceText, 40), display.Truncate(e.FinalText, 40))
		}
		return w.Flush()
	}),
}

var memoryStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show translation memory statistics",
	RunE: withStore(func(ctx context.Context, db *store.Store, _ []string) error {
		stats, err := db.Stats(ctx)
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		w := newTable()
		fmt.Fprintf(w, "Entries:\t%d\n", stats.TotalEntries)
		fmt.Fprintf(w, "Manual entries:\t%d\n", stats.ManualEntries)
		fmt.Fprintf(w, "Reused:\t%d\n", stats.TotalUsage)
		fmt.Fprintf(w, "Sessions:\t%d\n", stats.Sessions)
		fmt.Fprintf(w, "Decisions:\t%d\n", stats.Decisions)
		return w.Flush()
	}),
}

var memoryDecisionsCmd = &cobra.Command{
	Use:   "decisions <session-id>",
	Short: "Show the decisions of one walk in the order they were made",
	Long: `Show what was decided for every prompted String of one walk. The session
ID is printed at the end of a walk run with --memory.`,
	Args: cobra.ExactArgs(1),
	RunE: withStore(func(ctx context.Context, db *store.Store, args []string) error {
		records, err := db.ListDecisions(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to list decisions: %w", err)
		}
		if len(records) == 0 {
			fmt.Printf("No decisions recorded for session %s.\n", args[0])
			return nil
		}
		return writeDecisions(os.Stdout, records)
	}),
}

func writeDecisions(out io.Writer, records []internal.DecisionRecord) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tDECISION\tSOURCE\tCANDIDATE\tFINAL")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Key, r.Decision,
			display.Truncate(r.SourceText, 30), display.Truncate(r.Candidate, 30), display.Truncate(r.FinalText, 30))
	}
	return w.Flush()
}

var memoryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a translation memory entry by ID",
	Args:  cobra.ExactArgs(1),
	RunE: withStore(func(ctx context.Context, db *store.Store, args []string) error {
		if err := db.DeleteMemory(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}
		fmt.Printf("Deleted entry: %s\n", args[0])
		return nil
	}),
}

var memoryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all entries from translation memory",
	RunE: withStore(func(ctx context.Context, db *store.Store, _ []string) error {
		n, err := db.ClearMemory(ctx)
		if err != nil {
			return fmt.Errorf("failed to clear memory: %w", err)
		}
		fmt.Printf("Cleared %d entries from translation memory.\n", n)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(memoryCmd)
	memoryCmd.AddCommand(memoryListCmd, memoryStatsCmd, memoryDecisionsCmd, memoryDeleteCmd, memoryClearCmd)
}
