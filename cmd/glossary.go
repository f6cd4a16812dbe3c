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

	"github.com/spf13/cobra"

	"github.com/valpere/locwalk/internal/orchestrator"
	"github.com/valpere/locwalk/internal/store"
)

var glossaryCmd = &cobra.Command{
	Use:   "glossary",
	Short: "Manage the terminology glossary",
	Long: `Add, list, and delete terminology glossary entries.

Glossary entries are passed to the LLM backends (ollama, openai) so that
product names and UI terms such as "Fan" or "Performance Mode" are translated
the same way in every string. The glossary lives in the --memory database.`,
}

// glossaryFlags holds the language pair shared by the glossary subcommands.
var glossaryFlags struct {
	source string
	target string
}

var glossaryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List glossary entries, optionally for one language pair",
	RunE: withStore(func(ctx context.Context, db *store.Store, _ []string) error {
		entries, err := db.ListGlossaryTerms(ctx, glossaryFlags.source, glossaryFlags.target)
		if err != nil {
			return fmt.Errorf("failed to list glossary: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("Glossary is empty.")
			return nil
		}

		w := newTable()
		fmt.Fprintln(w, "ID\tPAIR\tTERM\tTRANSLATION")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s-%s\t%s\t%s\n", e.ID, e.SourceLang, e.TargetLang, e.SourceTerm, e.TargetTerm)
		}
		return w.Flush()
	}),
}

var glossaryAddCmd = &cobra.Command{
	Use:   "add <term> <translation>",
	Short: "Add or update a glossary entry",
	Example: `  locwalk glossary add "Fan" "Вентилятор" -t uk --memory locwalk.db
  locwalk glossary add "Performance Mode" "Режим продуктивності" -t uk`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if glossaryFlags.target == "" {
			return fmt.Errorf("--target is required")
		}
		return nil
	},
	RunE: withStore(func(ctx context.Context, db *store.Store, args []string) error {
		source := glossaryFlags.source
		if source == "" {
			source = orchestrator.SourceLang
		}
		if err := db.AddGlossaryTerm(ctx, source, glossaryFlags.target, args[0], args[1]); err != nil {
			return fmt.Errorf("failed to add glossary entry: %w", err)
		}
		fmt.Printf("Added [%s-%s] %q => %q\n", source, glossaryFlags.target, args[0], args[1])
		return nil
	}),
}

var glossaryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a glossary entry by the ID shown in \"glossary list\"",
	Args:  cobra.ExactArgs(1),
	RunE: withStore(func(ctx context.Context, db *store.Store, args []string) error {
		if err := db.DeleteGlossaryTerm(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to delete glossary entry: %w", err)
		}
		fmt.Printf("Deleted glossary entry: %s\n", args[0])
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(glossaryCmd)

	glossaryCmd.PersistentFlags().StringVarP(&glossaryFlags.source, "source", "s", "", "Source language code (add defaults to en)")
	glossaryCmd.PersistentFlags().StringVarP(&glossaryFlags.target, "target", "t", "", "Target language code (e.g. uk)")

	glossaryCmd.AddCommand(glossaryListCmd, glossaryAddCmd, glossaryDeleteCmd)
}
