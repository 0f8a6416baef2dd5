package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sekolahku/pelajar-gateway/internal/importer"
)

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", importer.TemplateFilename, "Output path for the template workbook")
	flag.Parse()

	data, err := importer.TemplateBytes()
	if err != nil {
		log.Fatalf("Template build failed: %v", err)
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		log.Fatalf("Write failed: %v", err)
	}

	fmt.Printf("Template written to %s (%d bytes)\n", outPath, len(data))
}
