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
	"os"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/valpere/transroute/internal/breaker"
	"github.com/valpere/transroute/internal/router"
	"github.com/valpere/transroute/internal/translator"
)

// buildLogger returns a development logger in verbose mode, otherwise a
// no-op logger so library output stays quiet.
func buildLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// buildRouter wires the breaker manager, providers, and router from CLI
// parameters. Each real provider gets its own breaker from the manager.
func buildRouter(cfg router.Config, providerNames []string, googleCredentials, systranAPIKey, mymemoryEmail string, breakerCfg breaker.Config, log *zap.Logger) (*router.Router, *breaker.Manager, error) {
	mgr, err := breaker.NewManager(breakerCfg, log)
	if err != nil {
		return nil, nil, err
	}

	r, err := router.New(cfg, mgr, log)
	if err != nil {
		return nil, nil, err
	}

	for _, name := range providerNames {
		switch name {
		case "google":
			r.Register(translator.NewGoogleProvider(googleCredentials).WithBreaker(mgr.Get("google")))
		case "systran":
			r.Register(translator.NewSystranProvider(systranAPIKey).WithBreaker(mgr.Get("systran")))
		case "mymemory":
			r.Register(translator.NewMyMemoryProvider(mymemoryEmail).WithBreaker(mgr.Get("mymemory")))
		default:
			fmt.Fprintf(os.Stderr, "Unknown provider: %s, skipping\n", name)
		}
	}

	return r, mgr, nil
}

// providerCredentials resolves provider secrets through viper, so flag values
// take precedence but config-file and TRANSROUTE_* environment values apply
// when the flags are unset.
func providerCredentials() (googleCreds, systranAPIKey, mymemoryContact string) {
	return viper.GetString("google.credentials"),
		viper.GetString("systran.api_key"),
		viper.GetString("mymemory.email")
}

func defaultBreakerConfig(timeout time.Duration) breaker.Config {
	cfg := breaker.DefaultConfig()
	if timeout > 0 {
		cfg.ExpectedTimeout = timeout
	}
	return cfg
}
