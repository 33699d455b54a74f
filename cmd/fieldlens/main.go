package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fieldlens/fieldlens/internal/analysis"
)

var (
	outputFormat     = flag.String("format", "text", "Output format: text, json")
	disableInference = flag.Bool("no-inference", false, "Disable layout inference, report AcroForm widgets only")
	iouThreshold     = flag.Float64("iou-threshold", 0, "IoU overlap above which detections merge (0 = default)")
	minConfidence    = flag.Float64("min-confidence", 0, "Drop inferred candidates below this confidence (0 = default)")
	verbose          = flag.Bool("verbose", false, "Enable verbose output")
	help             = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: PDF file path required\n\n")
		printUsage()
		os.Exit(1)
	}

	pdfPath := flag.Arg(0)
	if _, err := os.Stat(pdfPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: File not found: %s\n", pdfPath)
		os.Exit(1)
	}

	result := analyzeFile(pdfPath, buildOptions())

	if err := outputResults(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error outputting results: %v\n", err)
		os.Exit(1)
	}

	if !result.Success {
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("FieldLens - Detect and classify form fields in PDF documents")
	fmt.Println()
	fmt.Println("Finds fillable fields two ways: by scanning AcroForm widget annotations,")
	fmt.Println("and by inferring field placement from page layout (drawn boxes, underlines,")
	fmt.Println("checkbox glyphs, trailing-colon labels). Overlapping detections are merged")
	fmt.Println("into a single deduplicated report.")
	fmt.Println()
	printUsage()
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -format          Output format: text (default), json")
	fmt.Println("  -no-inference    Disable layout inference, report AcroForm widgets only")
	fmt.Println("  -iou-threshold   Overlap ratio above which detections merge (default 0.5)")
	fmt.Println("  -min-confidence  Drop inferred candidates below this confidence (default 0.4)")
	fmt.Println("  -verbose         Enable verbose output")
	fmt.Println("  -help            Show this help message")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  fieldlens application.pdf")
	fmt.Println("  fieldlens -no-inference tax-form.pdf")
	fmt.Println("  fieldlens -format json -min-confidence 0.7 forms/w9.pdf")
}

func printUsage() {
	fmt.Println("USAGE:")
	fmt.Println("  fieldlens [OPTIONS] <pdf_file>")
}

func buildOptions() analysis.Options {
	opts := analysis.DefaultOptions()
	if *disableInference {
		opts.EnableLayoutInference = false
	}
	if *iouThreshold > 0 {
		opts.IoUMergeThreshold = *iouThreshold
	}
	if *minConfidence > 0 {
		opts.MinConfidence = *minConfidence
	}
	return opts
}

// AnalysisResult is the CLI's complete output for one file.
type AnalysisResult struct {
	FilePath string           `json:"file_path"`
	Success  bool             `json:"success"`
	Report   *analysis.Report `json:"report,omitempty"`
	Error    string           `json:"error,omitempty"`
}

func analyzeFile(pdfPath string, opts analysis.Options) *AnalysisResult {
	result := &AnalysisResult{FilePath: pdfPath}

	if absPath, err := filepath.Abs(pdfPath); err == nil {
		result.FilePath = absPath
	}

	data, err := os.ReadFile(result.FilePath)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "Analyzing %s (%d bytes)\n", result.FilePath, len(data))
	}

	report, err := analysis.Analyze(data, opts)
	if err != nil {
		var loadErr *analysis.LoadError
		if errors.As(err, &loadErr) {
			result.Error = fmt.Sprintf("cannot open document (%s)", loadErr.Reason)
		} else {
			result.Error = err.Error()
		}
		return result
	}

	result.Success = true
	result.Report = report
	return result
}

func outputResults(result *AnalysisResult) error {
	switch *outputFormat {
	case "json":
		return outputJSON(result)
	case "text":
		return outputText(result)
	default:
		return fmt.Errorf("unsupported output format: %s", *outputFormat)
	}
}

func outputJSON(result *AnalysisResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputText(result *AnalysisResult) error {
	if !result.Success {
		fmt.Printf("Analysis failed: %s\n", result.Error)
		return nil
	}

	report := result.Report
	fmt.Printf("%s\n", result.FilePath)
	fmt.Printf("Pages: %d, fields: %d\n", len(report.Pages), report.TotalFields)

	if report.TotalFields == 0 {
		fmt.Println("No form fields detected")
		return nil
	}

	fmt.Println()
	fmt.Println("By type:")
	for _, ft := range []analysis.FieldType{
		analysis.FieldTypeText,
		analysis.FieldTypeCheckbox,
		analysis.FieldTypeRadio,
		analysis.FieldTypeDropdown,
		analysis.FieldTypeSignature,
		analysis.FieldTypeButton,
	} {
		if n := report.CountsByType[ft]; n > 0 {
			fmt.Printf("  %-12s %d\n", ft, n)
		}
	}

	fmt.Println()
	fmt.Println("Fields (top to bottom per page):")
	for i, f := range report.Fields {
		fmt.Printf("[%d] %s\n", i+1, f.Name)
		fmt.Printf("    Type: %s\n", f.Type)
		fmt.Printf("    Page: %d\n", f.PageIndex+1)
		fmt.Printf("    Rect: %s\n", f.Rect)

		sources := make([]string, len(f.Sources))
		for j, src := range f.Sources {
			sources[j] = string(src)
		}
		fmt.Printf("    Detected by: %s (confidence %.2f)\n", strings.Join(sources, ", "), f.Confidence)
	}

	if len(report.Warnings) > 0 {
		fmt.Println()
		fmt.Println("Warnings:")
		for _, w := range report.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}

	return nil
}
