package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"kvlist-go/internal/codec"
	"kvlist-go/internal/persistence"
)

func main() {
	inputFile := flag.String("input", "", "Input store file path (required)")
	outputFile := flag.String("output", "", "Output store file path (required)")
	inputFormat := flag.String("from", "auto", "Input format: 'auto', "+formatList())
	outputFormat := flag.String("to", codec.TextName, "Output format: "+formatList())
	flag.Parse()

	if *inputFile == "" || *outputFile == "" {
		fmt.Println("Usage: kvlist_converter -input <file> -output <file> [-from auto|binary|tagged|text] [-to binary|tagged|text]")
		fmt.Println("\nConvert store files between the binary, tagged and text formats")
		fmt.Println("\nExamples:")
		fmt.Println("  # Dump a saved store as JSON for inspection")
		fmt.Println("  kvlist_converter -input kvlist.bin -output kvlist.json -to text")
		fmt.Println("\n  # Convert it back to the flat binary format")
		fmt.Println("  kvlist_converter -input kvlist.json -output kvlist.bin -to binary")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := checkFormats(*inputFormat, *outputFormat); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	count, err := convertStore(*inputFile, *outputFile, *inputFormat, *outputFormat)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Converted %d entries from %s to %s (format: %s)\n",
		count, *inputFile, *outputFile, *outputFormat)
}

func formatList() string {
	return "'" + strings.Join(codec.Names(), "', '") + "'"
}

func checkFormats(from, to string) error {
	if from != "auto" && !codec.IsKnown(from) {
		return fmt.Errorf("input format must be 'auto', %s, got '%s'", formatList(), from)
	}
	if !codec.IsKnown(to) {
		return fmt.Errorf("output format must be %s, got '%s'", formatList(), to)
	}
	return nil
}

func convertStore(inputPath, outputPath, from, to string) (int, error) {
	var decoder codec.Encoder
	if from != "auto" {
		decoder = codec.EncoderFactory(from)
	}

	s, err := persistence.Load(inputPath, decoder)
	if err != nil {
		return 0, fmt.Errorf("failed to read input: %w", err)
	}
	defer s.Destroy()

	if err := persistence.Save(outputPath, s, codec.EncoderFactory(to)); err != nil {
		return 0, fmt.Errorf("failed to write output: %w", err)
	}

	return s.Len(), nil
}
