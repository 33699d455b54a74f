package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Search discovers PDF files under a directory.
type Search struct {
	validator *Validator
}

// NewSearch creates a search handler sharing the validator's size limit.
func NewSearch(maxFileSize int64) *Search {
	return &Search{validator: NewValidator(maxFileSize)}
}

// SearchDirectory walks the directory tree and returns the PDF files that
// pass quick validation and match the optional fuzzy query. Unreadable
// entries are skipped silently so one bad file cannot abort the walk.
func (s *Search) SearchDirectory(req SearchDirectoryRequest) (*SearchDirectoryResult, error) {
	if req.Directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}
	if _, err := os.Stat(req.Directory); os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", req.Directory)
	}

	absDirectory, err := filepath.Abs(req.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(req.Query))
	var files []FileInfo

	err = filepath.Walk(absDirectory, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil //nolint:nilerr // continue past unreadable entries
		}
		if info.IsDir() {
			// Hidden directories are rarely document storage.
			if strings.HasPrefix(info.Name(), ".") && path != absDirectory {
				return filepath.SkipDir
			}
			return nil
		}
		if !isPDFFile(info.Name()) {
			return nil
		}
		if err := s.validator.ValidateFileInfo(path, info); err != nil {
			return nil //nolint:nilerr // skip invalid files, keep walking
		}
		if query != "" && !matchesQuery(info.Name(), query) {
			return nil
		}
		files = append(files, FileInfo{
			Path:         path,
			Name:         info.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	return &SearchDirectoryResult{
		Files:       files,
		TotalCount:  len(files),
		Directory:   absDirectory,
		SearchQuery: req.Query,
	}, nil
}

// CountPDFsInDirectory returns how many analyzable PDFs live under the
// directory.
func (s *Search) CountPDFsInDirectory(directory string) (int, error) {
	result, err := s.SearchDirectory(SearchDirectoryRequest{Directory: directory})
	if err != nil {
		return 0, err
	}
	return result.TotalCount, nil
}

func isPDFFile(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}

// matchesQuery fuzzy-matches a filename: substring first, then requiring
// every query word to appear in some filename word.
func matchesQuery(filename, query string) bool {
	if query == "" {
		return true
	}
	name := strings.ToLower(filename)
	if strings.Contains(name, query) {
		return true
	}
	nameWords := splitIntoWords(strings.TrimSuffix(name, ".pdf"))
	for _, qw := range splitIntoWords(query) {
		found := false
		for _, w := range nameWords {
			if strings.Contains(w, qw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// splitIntoWords breaks text on common filename separators.
func splitIntoWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		switch r {
		case ' ', '_', '-', '.', '(', ')', '[', ']':
			return true
		}
		return false
	})
}
