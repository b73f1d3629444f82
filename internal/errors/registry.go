package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E120-E149)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Failed to read configuration",
		Detail:   "pageroute.json could not be read or is not valid JSON.",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Invalid environment override",
		Detail:   "A PAGEROUTE_* environment variable could not be parsed.",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "A configuration value is out of range or inconsistent.",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Configuration not found",
		Detail:   "No pageroute.json was found in the directory or any parent directory.",
	},

	// ============================================
	// Scan Errors (E200-E209)
	// ============================================

	"E201": {
		Category: CategoryScan,
		Message:  "Malformed page file",
		Detail:   "The page file key does not follow the ./<dir>/<name><ext> layout, so no route name can be derived from it.",
	},
	"E202": {
		Category: CategoryScan,
		Message:  "Page source failure",
		Detail:   "The page source could not list or open page files.",
	},
	"E203": {
		Category: CategoryScan,
		Message:  "Component load failure",
		Detail:   "The page file could not be loaded as a component.",
	},

	// ============================================
	// Navigation Errors (E210-E219)
	// ============================================

	"E210": {
		Category: CategoryNavigation,
		Message:  "Navigation aborted",
		Detail:   "A before-each or before-resolve guard rejected the navigation.",
	},
	"E211": {
		Category: CategoryNavigation,
		Message:  "Unresolvable navigation target",
		Detail:   "The navigation target is not a valid URL or matches no route.",
	},

	// ============================================
	// CLI Errors (E300-E309)
	// ============================================

	"E300": {
		Category: CategoryCLI,
		Message:  "Invalid command usage",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
