package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (H100-H199)
	// ============================================

	"H100": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "The config file passed with --config does not exist. Without --config, vhead.json or vhead.yaml in the working directory is used when present.",
	},
	"H101": {
		Category: CategoryConfig,
		Message:  "Invalid config file syntax",
		Detail:   "The config file could not be parsed. JSON configs must be a single object; YAML configs a single mapping.",
	},
	"H102": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
		Detail:   "A config value is out of range or malformed.",
	},
	"H103": {
		Category: CategoryConfig,
		Message:  "Cannot write config file",
		Detail:   "The config file could not be written. Check the directory exists and is writable.",
	},

	// ============================================
	// Declaration Errors (H200-H299)
	// ============================================

	"H200": {
		Category: CategoryDeclaration,
		Message:  "Declaration file not found",
		Detail:   "The declaration file does not exist or cannot be read.",
	},
	"H201": {
		Category: CategoryDeclaration,
		Message:  "Invalid declaration file syntax",
		Detail:   "The declaration file is not valid JSON or YAML.",
	},
	"H202": {
		Category: CategoryDeclaration,
		Message:  "Invalid declaration",
		Detail:   "A declaration field has the wrong type. A file holds one declaration object or a list of them, outermost first; title is a string or a list of strings.",
	},
	"H203": {
		Category: CategoryDeclaration,
		Message:  "Unsupported declaration file type",
		Detail:   "Declaration files must end in .json, .yaml or .yml.",
	},
	"H204": {
		Category: CategoryDeclaration,
		Message:  "Watch failed",
		Detail:   "Declaration files could not be watched for changes.",
	},

	// ============================================
	// Document Errors (H300-H399)
	// ============================================

	"H300": {
		Category: CategoryDocument,
		Message:  "Cannot read document",
		Detail:   "The HTML document could not be opened or parsed.",
	},
	"H301": {
		Category: CategoryDocument,
		Message:  "Cannot write document",
		Detail:   "The reconciled HTML document could not be written.",
	},
	"H302": {
		Category: CategoryDocument,
		Message:  "Render failed",
		Detail:   "The head markup could not be written to the output.",
	},

	// ============================================
	// CLI Errors (H400-H499)
	// ============================================

	"H400": {
		Category: CategoryCLI,
		Message:  "Invalid arguments",
		Detail:   "The command was called with missing or unexpected arguments.",
	},
	"H401": {
		Category: CategoryCLI,
		Message:  "Unknown output format",
		Detail:   "Supported output formats are head and page.",
	},
	"H402": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The preview server stopped with an error.",
	},
	"H403": {
		Category: CategoryCLI,
		Message:  "Unknown log setting",
		Detail:   "Log levels are debug, info, warn and error; log formats are text and json.",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
