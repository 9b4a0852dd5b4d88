package config

import (
	"fmt"
	"strings"
)

// ConfigError represents a structured error that occurs during stack loading.
type ConfigError struct {
	FilePath    string   `json:"filePath"`    // Full path to the file that caused the error
	Category    string   `json:"category"`    // Configuration category (catalog, services)
	ErrorType   string   `json:"errorType"`   // Type of error (parse, validation, io)
	Message     string   `json:"message"`     // Human-readable error message
	Suggestions []string `json:"suggestions"` // Actionable suggestions to fix the error
}

// Error implements the error interface
func (ce ConfigError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ce.Category, ce.FilePath, ce.Message)
}

// DetailedError returns a detailed error message with all context
func (ce ConfigError) DetailedError() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("Configuration error in %s", ce.FilePath))
	parts = append(parts, fmt.Sprintf("  Category: %s", ce.Category))
	parts = append(parts, fmt.Sprintf("  Type: %s", ce.ErrorType))
	parts = append(parts, fmt.Sprintf("  Error: %s", ce.Message))
	if len(ce.Suggestions) > 0 {
		parts = append(parts, "  Suggestions:")
		for _, suggestion := range ce.Suggestions {
			parts = append(parts, fmt.Sprintf("    - %s", suggestion))
		}
	}
	return strings.Join(parts, "\n")
}

func parseError(path, category string, err error, suggestions ...string) ConfigError {
	return ConfigError{
		FilePath:    path,
		Category:    category,
		ErrorType:   "parse",
		Message:     err.Error(),
		Suggestions: suggestions,
	}
}

func validationError(path, category, message string, suggestions ...string) ConfigError {
	return ConfigError{
		FilePath:    path,
		Category:    category,
		ErrorType:   "validation",
		Message:     message,
		Suggestions: suggestions,
	}
}
