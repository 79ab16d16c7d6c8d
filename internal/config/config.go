// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables and an
// optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/mkravets/passvault/internal/generator"
	"github.com/mkravets/passvault/internal/store"
)

// Options holds the configuration values for the application.
type Options struct {
	// File is the path to the vault file.
	File string

	// GenLength is the length of generated passwords.
	GenLength int

	// Config is the path to the Config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.File, "f", store.DefaultPath, "path to the vault file")
	flag.IntVar(&options.GenLength, "l", generator.DefaultLength, "generated password length")
	flag.StringVar(&options.Config, "config", "", "path to config file")
	flag.StringVar(&options.Config, "c", "", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if vaultFile := os.Getenv("VAULT_FILE"); vaultFile != "" {
		options.File = vaultFile
	}

	if options.GenLength < 1 {
		options.GenLength = generator.DefaultLength
	}

	return options
}
