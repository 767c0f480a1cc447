package main

import (
	"flag"
	"log"

	"github.com/danmuck/markview/internal/config"
)

func main() {
	output := flag.String("output", "cmd/markview/config.toml", "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", "cmd/markview/config.toml", "config path for validation")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if *validate {
		if err := config.Lint(*input); err != nil {
			log.Fatal(err)
		}
		if _, err := config.Load(*input); err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated markview config at %s", *input)
		return
	}

	if err := config.WriteTemplate(*output, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote markview config template to %s", *output)
}
