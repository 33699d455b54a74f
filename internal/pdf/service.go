package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fieldlens/fieldlens/internal/analysis"
	"github.com/fieldlens/fieldlens/internal/overlay"
	"github.com/fieldlens/fieldlens/internal/pdf/security"
)

// ToolNames lists the operations the service exposes, in the order they
// are registered on the MCP server.
var ToolNames = []string{
	"pdf_analyze_fields",
	"pdf_validate_file",
	"pdf_search_directory",
	"pdf_render_overlay",
	"pdf_server_info",
}

// Service orchestrates file access and the analysis pipeline. All file
// paths are confined to the configured directory.
type Service struct {
	serverName    string
	version       string
	maxFileSize   int64
	baseOptions   analysis.Options
	validator     *Validator
	search        *Search
	pathValidator *security.PathValidator
}

// NewService builds a service rooted at configuredDirectory.
func NewService(serverName, version string, maxFileSize int64, configuredDirectory string, baseOptions analysis.Options) (*Service, error) {
	pathValidator, err := security.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	return &Service{
		serverName:    serverName,
		version:       version,
		maxFileSize:   maxFileSize,
		baseOptions:   baseOptions,
		validator:     NewValidator(maxFileSize),
		search:        NewSearch(maxFileSize),
		pathValidator: pathValidator,
	}, nil
}

// AnalyzeFile runs the field analysis on one file.
func (s *Service) AnalyzeFile(req AnalyzeFileRequest) (*AnalyzeFileResult, error) {
	if err := s.pathValidator.ValidatePath(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	data, err := s.readLimited(req.Path)
	if err != nil {
		return nil, err
	}

	report, err := analysis.Analyze(data, s.optionsFor(req))
	if err != nil {
		return nil, fmt.Errorf("analysis of %s failed: %w", req.Path, err)
	}

	return &AnalyzeFileResult{Path: req.Path, Report: report}, nil
}

// optionsFor layers per-request tuning over the service defaults.
func (s *Service) optionsFor(req AnalyzeFileRequest) analysis.Options {
	opts := s.baseOptions
	if req.DisableLayoutInference {
		opts.EnableLayoutInference = false
	}
	if req.IoUMergeThreshold > 0 {
		opts.IoUMergeThreshold = req.IoUMergeThreshold
	}
	if req.MinConfidence > 0 {
		opts.MinConfidence = req.MinConfidence
	}
	return opts
}

// readLimited reads the file after checking metadata against the size
// limit, so an oversized file is rejected before it is loaded.
func (s *Service) readLimited(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if err := s.validator.ValidateFileInfo(path, info); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}
	return data, nil
}

// ValidateFile checks whether a file is an analyzable PDF.
func (s *Service) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	if err := s.pathValidator.ValidatePath(req.Path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.validator.ValidateFile(req)
}

// SearchDirectory lists PDF files, defaulting to the configured directory.
func (s *Service) SearchDirectory(req SearchDirectoryRequest) (*SearchDirectoryResult, error) {
	if req.Directory == "" {
		req.Directory = s.pathValidator.GetConfiguredDirectory()
	}
	if err := s.pathValidator.ValidateDirectory(req.Directory); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.search.SearchDirectory(req)
}

// RenderOverlay analyzes a file and writes a visualization of one page's
// fields next to the source (or to the requested output path).
func (s *Service) RenderOverlay(req RenderOverlayRequest) (*RenderOverlayResult, error) {
	analyzed, err := s.AnalyzeFile(AnalyzeFileRequest{Path: req.Path})
	if err != nil {
		return nil, err
	}
	report := analyzed.Report

	if req.PageIndex < 0 || req.PageIndex >= len(report.Pages) {
		return nil, fmt.Errorf("page index %d out of range (document has %d pages)",
			req.PageIndex, len(report.Pages))
	}

	data, err := overlay.RenderPage(report, req.PageIndex, overlay.SizeFor(report, req.PageIndex))
	if err != nil {
		return nil, err
	}

	outPath := req.OutputPath
	if outPath == "" {
		outPath = overlayPath(req.Path, req.PageIndex)
	}
	if err := s.pathValidator.ValidatePath(outPath); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write overlay: %w", err)
	}

	return &RenderOverlayResult{
		OutputPath: outPath,
		PageIndex:  req.PageIndex,
		FieldCount: len(report.PageFields(req.PageIndex)),
	}, nil
}

// overlayPath derives the default output path for an overlay.
func overlayPath(srcPath string, pageIndex int) string {
	dir := filepath.Dir(srcPath)
	base := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	return filepath.Join(dir, fmt.Sprintf("%s_fields_p%d.pdf", base, pageIndex+1))
}

// ServerInfo describes the service configuration and tool inventory.
func (s *Service) ServerInfo(_ ServerInfoRequest) (*ServerInfoResult, error) {
	return &ServerInfoResult{
		ServerName:  s.serverName,
		Version:     s.version,
		Directory:   s.pathValidator.GetConfiguredDirectory(),
		MaxFileSize: s.maxFileSize,
		Tools:       append([]string(nil), ToolNames...),
	}, nil
}

// GetMaxFileSize returns the configured size limit.
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// IsValidPDF is a quick boolean validation used by startup diagnostics.
func (s *Service) IsValidPDF(filePath string) bool {
	return s.validator.IsValidPDF(filePath)
}

// CountPDFsInDirectory counts analyzable PDFs under a directory.
func (s *Service) CountPDFsInDirectory(directory string) (int, error) {
	return s.search.CountPDFsInDirectory(directory)
}
