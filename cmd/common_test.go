package cmd

import (
	"testing"

	"github.com/spf13/viper"
)

func TestProviderCredentialsFromConfig(t *testing.T) {
	viper.Set("google.credentials", "/etc/transroute/creds.json")
	viper.Set("systran.api_key", "sys-key")
	viper.Set("mymemory.email", "quota@example.com")
	t.Cleanup(func() {
		viper.Set("google.credentials", "")
		viper.Set("systran.api_key", "")
		viper.Set("mymemory.email", "")
	})

	googleCreds, systranAPIKey, mymemoryContact := providerCredentials()
	if googleCreds != "/etc/transroute/creds.json" {
		t.Errorf("expected config credentials path, got %q", googleCreds)
	}
	if systranAPIKey != "sys-key" {
		t.Errorf("expected config api key, got %q", systranAPIKey)
	}
	if mymemoryContact != "quota@example.com" {
		t.Errorf("expected config contact email, got %q", mymemoryContact)
	}
}
