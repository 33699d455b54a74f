// Package pdf provides the file-facing service around the analysis
// pipeline: path confinement, validation, directory search and overlay
// rendering.
package pdf

import "github.com/fieldlens/fieldlens/internal/analysis"

// FileInfo describes one PDF file found during directory search.
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// AnalyzeFileRequest asks for a field analysis of one file. Zero-valued
// tuning fields fall back to the service defaults.
type AnalyzeFileRequest struct {
	Path string `json:"path"`
	// DisableLayoutInference restricts the run to widget annotations.
	DisableLayoutInference bool    `json:"disable_layout_inference,omitempty"`
	IoUMergeThreshold      float64 `json:"iou_merge_threshold,omitempty"`
	MinConfidence          float64 `json:"min_confidence,omitempty"`
}

// AnalyzeFileResult carries the analysis report for one file.
type AnalyzeFileResult struct {
	Path   string           `json:"path"`
	Report *analysis.Report `json:"report"`
}

// ValidateFileRequest asks whether a file is an analyzable PDF.
type ValidateFileRequest struct {
	Path string `json:"path"`
}

// ValidateFileResult reports the validation outcome. Invalid files are a
// result, not an error.
type ValidateFileResult struct {
	Path    string `json:"path"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// SearchDirectoryRequest lists PDF files under a directory, optionally
// fuzzy-filtered by query.
type SearchDirectoryRequest struct {
	Directory string `json:"directory,omitempty"`
	Query     string `json:"query,omitempty"`
}

// SearchDirectoryResult lists the matching files.
type SearchDirectoryResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}

// RenderOverlayRequest renders one page's detected fields to a new PDF.
// An empty OutputPath derives one next to the source file.
type RenderOverlayRequest struct {
	Path       string `json:"path"`
	PageIndex  int    `json:"page_index"`
	OutputPath string `json:"output_path,omitempty"`
}

// RenderOverlayResult reports where the overlay was written.
type RenderOverlayResult struct {
	OutputPath string `json:"output_path"`
	PageIndex  int    `json:"page_index"`
	FieldCount int    `json:"field_count"`
}

// ServerInfoRequest asks for server configuration and tool inventory.
type ServerInfoRequest struct{}

// ServerInfoResult describes the running server.
type ServerInfoResult struct {
	ServerName  string   `json:"server_name"`
	Version     string   `json:"version"`
	Directory   string   `json:"directory"`
	MaxFileSize int64    `json:"max_file_size"`
	Tools       []string `json:"tools"`
}
