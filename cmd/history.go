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
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/transroute/internal/store"
)

var (
	historyDBPath string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the routing history database",
	Long:  `List, summarise, and clear the SQLite routing history.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent routed requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(historyDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		entries, err := db.ListHistory(context.Background(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No routing history recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tSOURCE\tTARGET\tPROVIDER\tCONF\tCACHED\tERROR\tTEXT")
		for _, e := range entries {
			snippet := e.SourceText
			if len(snippet) > 40 {
				snippet = snippet[:37] + "..."
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%v\t%s\t%s\n",
				e.CreatedAt.Format("2006-01-02 15:04"), e.SourceLang, e.TargetLang,
				e.Provider, e.Confidence, e.FromCache, e.Error, snippet)
		}
		return w.Flush()
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show routing history statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(historyDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		stats, err := db.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		fmt.Printf("Total requests:  %d\n", stats.TotalRequests)
		fmt.Printf("Succeeded:       %d\n", stats.Succeeded)
		fmt.Printf("Failed:          %d\n", stats.Failed)
		fmt.Printf("Cache hits:      %d\n", stats.CacheHits)
		fmt.Printf("Avg confidence:  %.2f\n", stats.AvgConfidence)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all routing history",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.New(historyDBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		removed, err := db.ClearHistory(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Printf("Removed %d requests\n", removed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyClearCmd)

	historyCmd.PersistentFlags().StringVar(&historyDBPath, "db", "transroute.db", "SQLite history database path")
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 50, "Maximum entries to list")
}
