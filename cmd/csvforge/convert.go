package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"csvforge/internal/convert"
)

var (
	convertOutput    string
	convertDelimiter string
	convertQuote     string
	convertNoHeader  bool
	convertColumns   []string
	convertEncoding  string
	convertCRLF      bool
)

func init() {
	cmd := newConvertCmd()
	cmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Output file (default input name with .csv, - for stdout)")
	cmd.Flags().StringVar(&convertDelimiter, "delimiter", "comma", "Field delimiter (comma, semicolon, tab)")
	cmd.Flags().StringVar(&convertQuote, "quote", "necessary", "Field quoting (necessary, always, never)")
	cmd.Flags().BoolVar(&convertNoHeader, "no-header", false, "Omit the header row")
	cmd.Flags().StringSliceVar(&convertColumns, "columns", nil, "Columns to export, in order (default all)")
	cmd.Flags().StringVar(&convertEncoding, "encoding", "utf8", "Output encoding (utf8, utf8-bom, windows-1252)")
	cmd.Flags().BoolVar(&convertCRLF, "crlf", false, "Use Windows line endings")
	rootCmd.AddCommand(cmd)
}

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <input.json>",
		Short: "Convert a JSON file to CSV without the GUI",
		Long: `The convert command flattens a JSON document into CSV in one shot.

Example:
  csvforge convert data.json
  csvforge convert data.json -o out.csv --delimiter semicolon --no-header
  csvforge convert data.json -o - --columns id,user.name --quote always`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(args[0])
		},
	}
}

func runConvert(inputPath string) error {
	opts, err := buildOptions()
	if err != nil {
		return err
	}

	input, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inputPath, err)
	}
	defer input.Close()

	root, err := convert.Decode(input)
	if err != nil {
		return err
	}

	table, err := convert.Tabulate(root)
	if err != nil {
		return err
	}

	outputPath := convertOutput
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".csv"
	}

	if outputPath == "-" {
		return convert.Encode(os.Stdout, table, opts)
	}

	output, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	defer output.Close()

	if err := convert.Encode(output, table, opts); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}

	fmt.Fprintf(os.Stderr, "Wrote %d rows to %s\n", len(table.Rows), outputPath)
	return nil
}

// buildOptions maps the convert flags onto serializer options
func buildOptions() (convert.Options, error) {
	opts := convert.DefaultOptions()

	delimiter, err := convert.ParseDelimiter(convertDelimiter)
	if err != nil {
		return opts, err
	}
	quoteMode, err := convert.ParseQuoteMode(convertQuote)
	if err != nil {
		return opts, err
	}
	encoding, err := convert.ParseEncoding(convertEncoding)
	if err != nil {
		return opts, err
	}

	opts.Delimiter = delimiter
	opts.QuoteMode = quoteMode
	opts.Encoding = encoding
	opts.IncludeHeader = !convertNoHeader
	opts.UseCRLF = convertCRLF
	opts.Columns = convertColumns
	return opts, nil
}
