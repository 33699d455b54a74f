// Package mcp exposes the field analysis service over the Model Context
// Protocol.
package mcp

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/fieldlens/fieldlens/internal/analysis"
	"github.com/fieldlens/fieldlens/internal/config"
	"github.com/fieldlens/fieldlens/internal/descriptions"
	"github.com/fieldlens/fieldlens/internal/pdf"
)

// Server represents the MCP server instance.
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP server instance.
func NewServer(cfg *config.Config, pdfService *pdf.Service) (*Server, error) {
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // static tool set
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		mcpServer:  mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	analyzeFieldsTool := mcp.NewTool(
		"pdf_analyze_fields",
		mcp.WithDescription(descriptions.AnalyzeFieldsDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
		mcp.WithBoolean("disable_layout_inference",
			mcp.Description("Only report interactive widget annotations"),
		),
		mcp.WithNumber("iou_merge_threshold",
			mcp.Description("Overlap ratio above which detections merge (0..1)"),
		),
		mcp.WithNumber("min_confidence",
			mcp.Description("Minimum confidence for inferred fields (0..1)"),
		),
	)
	s.mcpServer.AddTool(analyzeFieldsTool, s.handleAnalyzeFields)

	validateFileTool := mcp.NewTool(
		"pdf_validate_file",
		mcp.WithDescription(descriptions.ValidateFileDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validateFileTool, s.handleValidateFile)

	searchDirectoryTool := mcp.NewTool(
		"pdf_search_directory",
		mcp.WithDescription(descriptions.SearchDirectoryDescription),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional search query for fuzzy matching"),
		),
	)
	s.mcpServer.AddTool(searchDirectoryTool, s.handleSearchDirectory)

	renderOverlayTool := mcp.NewTool(
		"pdf_render_overlay",
		mcp.WithDescription(descriptions.RenderOverlayDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
		mcp.WithNumber("page",
			mcp.Description("Page number to render, starting at 1 (default 1)"),
		),
		mcp.WithString("output_path",
			mcp.Description("Where to write the overlay (defaults to beside the source)"),
		),
	)
	s.mcpServer.AddTool(renderOverlayTool, s.handleRenderOverlay)

	serverInfoTool := mcp.NewTool(
		"pdf_server_info",
		mcp.WithDescription(descriptions.ServerInfoDescription),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// Handler functions

func (s *Server) handleAnalyzeFields(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := pdf.AnalyzeFileRequest{Path: path}
	args := request.GetArguments()
	if v, ok := args["disable_layout_inference"].(bool); ok {
		req.DisableLayoutInference = v
	}
	if v, ok := args["iou_merge_threshold"].(float64); ok {
		req.IoUMergeThreshold = v
	}
	if v, ok := args["min_confidence"].(float64); ok {
		req.MinConfidence = v
	}

	result, err := s.pdfService.AnalyzeFile(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatAnalyzeResult(result)), nil
}

func (s *Server) handleValidateFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ValidateFile(pdf.ValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and analyzable", result.Path)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleSearchDirectory(_ context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	directory := s.config.PDFDirectory // default
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}

	query := ""
	if q, ok := args["query"].(string); ok {
		query = q
	}

	result, err := s.pdfService.SearchDirectory(pdf.SearchDirectoryRequest{
		Directory: directory,
		Query:     query,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.TotalCount == 0 {
		responseText = fmt.Sprintf("No PDF files found in directory: %s", result.Directory)
		if result.SearchQuery != "" {
			responseText += fmt.Sprintf(" (searched for: %s)", result.SearchQuery)
		}
	} else {
		responseText = formatSearchResult(result)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleRenderOverlay(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	page := 1
	if p, ok := args["page"].(float64); ok && p >= 1 {
		page = int(p)
	}
	outputPath := ""
	if o, ok := args["output_path"].(string); ok {
		outputPath = o
	}

	result, err := s.pdfService.RenderOverlay(pdf.RenderOverlayRequest{
		Path:       path,
		PageIndex:  page - 1,
		OutputPath: outputPath,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Overlay for page %d written to %s (%d fields drawn)",
		result.PageIndex+1, result.OutputPath, result.FieldCount)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pdfService.ServerInfo(pdf.ServerInfoRequest{})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatServerInfoResult(result)), nil
}

// Formatting methods

func formatAnalyzeResult(result *pdf.AnalyzeFileResult) string {
	report := result.Report

	var b strings.Builder
	fmt.Fprintf(&b, "Field analysis for: %s\n", result.Path)
	fmt.Fprintf(&b, "Total fields: %d\n", report.TotalFields)

	if len(report.CountsByType) > 0 {
		b.WriteString("\nBy type:\n")
		for _, ft := range []analysis.FieldType{
			analysis.FieldTypeText,
			analysis.FieldTypeCheckbox,
			analysis.FieldTypeRadio,
			analysis.FieldTypeDropdown,
			analysis.FieldTypeSignature,
			analysis.FieldTypeButton,
		} {
			if n := report.CountsByType[ft]; n > 0 {
				fmt.Fprintf(&b, "  %s: %d\n", ft, n)
			}
		}
	}

	if report.TotalFields > 0 {
		b.WriteString("\nFields (top to bottom per page):\n")
		for i, f := range report.Fields {
			fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, f.Name, f.Type)
			fmt.Fprintf(&b, "   Page: %d\n", f.PageIndex+1)
			fmt.Fprintf(&b, "   Rect: %s\n", f.Rect)
			sources := make([]string, len(f.Sources))
			for j, src := range f.Sources {
				sources[j] = string(src)
			}
			fmt.Fprintf(&b, "   Detected by: %s (confidence %.2f)\n", strings.Join(sources, ", "), f.Confidence)
		}
	}

	if len(report.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, w := range report.Warnings {
			fmt.Fprintf(&b, "  - %s\n", w)
		}
	}

	return b.String()
}

func formatSearchResult(result *pdf.SearchDirectoryResult) string {
	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		text += fmt.Sprintf("Search query: %s\n", result.SearchQuery)
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}

	return text
}

func formatServerInfoResult(result *pdf.ServerInfoResult) string {
	text := fmt.Sprintf("%s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("Document directory: %s\n", result.Directory)
	text += fmt.Sprintf("Max file size: %d MB\n", result.MaxFileSize/(1024*1024))

	text += "\nAvailable tools:\n"
	for _, tool := range result.Tools {
		text += fmt.Sprintf("  • %s\n", tool)
	}

	text += "\nStart with pdf_search_directory to discover documents, " +
		"then pdf_analyze_fields to extract their form fields.\n"

	return text
}

// Run starts the MCP server in the configured mode.
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode.
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting field analysis MCP server in stdio mode")
		log.Printf("Document directory: %s", s.config.PDFDirectory)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server in HTTP server mode.
func (s *Server) runServerMode(_ context.Context) error {
	log.Printf("Starting field analysis MCP server on %s", s.config.Address())

	sse := server.NewSSEServer(s.mcpServer)
	if err := sse.Start(s.config.Address()); err != nil {
		return fmt.Errorf("failed to serve http: %w", err)
	}
	return nil
}
