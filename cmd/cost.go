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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/valpere/transroute/internal/router"
)

var costCmd = &cobra.Command{
	Use:   "cost [text]",
	Short: "Estimate the translation cost without translating",
	Long: `Walk the provider priority order and report the first cost estimate a
provider can produce. No translation is performed, so this path touches
neither the cache nor any circuit breaker.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(args)
		if err != nil {
			return err
		}

		cfg := router.DefaultConfig()
		cfg.TargetLanguage = targetLang
		cfg.SourceLanguage = sourceLang
		cfg.PreferredProvider = preferred
		cfg.ProviderOrder = providers

		r, _, err := buildRouter(cfg, providers, googleCredentials, systranKey, mymemoryEmail,
			defaultBreakerConfig(callTimeout), buildLogger(verboseFlags))
		if err != nil {
			return err
		}

		fmt.Printf("Estimated cost: $%.6f\n", r.EstimateCost(text, sourceLang))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(costCmd)

	costCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file (alternative to positional text)")
	costCmd.Flags().StringVarP(&sourceLang, "source", "s", "en", "Source language code")
	costCmd.Flags().StringVarP(&targetLang, "target", "t", "en", "Target language code")
	costCmd.Flags().StringSliceVar(&providers, "providers", []string{"mymemory"}, "Providers in priority order")
	costCmd.Flags().StringVar(&preferred, "preferred", "", "Provider to try first")
	costCmd.Flags().StringVar(&googleCredentials, "google-credentials", "", "Google service account credentials file")
	costCmd.Flags().StringVar(&systranKey, "systran-key", "", "Systran API key")
	costCmd.Flags().StringVar(&mymemoryEmail, "mymemory-email", "", "MyMemory contact email")
}
