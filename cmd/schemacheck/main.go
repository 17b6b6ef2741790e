/*
 * Copyright © 2025 Hatchstone Labs, All rights reserved.
 */

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/hatchstone/objectlayer"
	"github.com/hatchstone/objectlayer/schema"
)

var (
	versionFlag = flag.Bool("version", false, "Show version information")
	vFlag       = flag.Bool("v", false, "Show version information (short)")
	schemaPath  = flag.String("schema", "", "Path to the schema YAML file (or SCHEMA_PATH)")
	verbose     = flag.Bool("verbose", false, "Log every class and property")
)

func main() {
	// Parse flags early to catch version flag
	flag.Parse()

	// Handle version flag
	if *versionFlag || *vFlag {
		info := objectlayer.GetVersionInfo()
		fmt.Printf("objectlayer schemacheck version %s\n", info.Version)
		fmt.Printf("Git commit: %s\n", info.GitCommit)
		fmt.Printf("Build date: %s\n", info.BuildDate)
		fmt.Printf("Go version: %s\n", info.GoVersion)
		os.Exit(0)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// A .env file is optional; flags and the environment still apply.
	_ = godotenv.Load()

	path := *schemaPath
	if path == "" {
		path = os.Getenv("SCHEMA_PATH")
	}
	if path == "" {
		log.Error().Msg("no schema given: pass -schema or set SCHEMA_PATH")
		os.Exit(2)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("read schema")
		os.Exit(1)
	}

	reg, err := schema.LoadYAML(data)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("schema is invalid")
		os.Exit(1)
	}

	classes := reg.Classes()
	for _, class := range classes {
		if !*verbose {
			continue
		}
		ev := log.Info().Str("class", class.Name()).Int64("key", class.Key())
		if pk := class.PrimaryKey(); pk != nil {
			ev = ev.Str("primaryKey", pk.Name)
		}
		ev.Int("properties", len(class.Properties())).Msg("class")
		for _, prop := range class.Properties() {
			log.Info().
				Str("class", class.Name()).
				Str("property", prop.Name).
				Str("type", prop.Describe()).
				Msg("property")
		}
	}
	log.Info().Str("path", path).Int("classes", len(classes)).Msg("schema is valid")
}
