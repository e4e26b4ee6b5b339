// Command synth writes a small synthetic leaf dataset, one folder per
// class, for exercising the trainer without real photographs.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/JaimeStill/leafscan/internal/synth"
)

func main() {
	var (
		out      = flag.String("out", "./data", "Directory to write class folders into")
		perClass = flag.Int("per-class", 30, "Images generated per class")
	)
	flag.Parse()

	if *perClass < 1 {
		log.Fatalf("-per-class must be positive, got %d", *perClass)
	}

	paths, err := synth.Generate(*out, *perClass)
	if err != nil {
		log.Fatalf("generate dataset: %v", err)
	}

	fmt.Printf("wrote %d images to %s\n", len(paths), *out)
}
