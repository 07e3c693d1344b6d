package config_test

import (
	"fmt"
	"log"

	"github.com/ajitpratap0/quoteframe/pkg/config"
)

// ExampleDefault shows the configuration used without a config file
func ExampleDefault() {
	cfg := config.Default()

	fmt.Printf("Strategy: %s\n", cfg.Strategy)
	fmt.Printf("Output: %s/%s\n", cfg.Output.Format, cfg.Output.Compression)
	fmt.Printf("Sample size: %d\n", cfg.Decoder.SampleSize)

	// Output:
	// Strategy: direct-append
	// Output: text/none
	// Sample size: 100
}

// ExampleConfig_Validate shows how to validate a configuration before use
func ExampleConfig_Validate() {
	cfg := config.Default()
	cfg.Shards = 4
	cfg.Input.Kind = config.InputRows

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	fmt.Println("Configuration is valid!")

	cfg.Shards = 0
	fmt.Println(cfg.Validate())

	// Output:
	// Configuration is valid!
	// config: shards must be at least 1, got 0
}
