package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Build Errors (E001-E019)
	// ============================================

	"E001": {
		Category: CategoryBuild,
		Message:  "List member key missing or duplicated",
		Detail:   "Every member of a node list must have a unique \"key\" attribute.",
		DocURL:   "https://hart.dev/docs/errors/E001",
	},
	"E002": {
		Category: CategoryHooks,
		Message:  "Hook order changed between renders",
		Detail:   "Hooks must be called in the same order on every invocation of a component. Do not call hooks conditionally.",
		DocURL:   "https://hart.dev/docs/errors/E002",
	},
	"E003": {
		Category: CategoryHooks,
		Message:  "Hook called outside component render",
		Detail:   "Hooks may only be called while the owning component function is running.",
		DocURL:   "https://hart.dev/docs/errors/E003",
	},
	"E004": {
		Category: CategoryBuild,
		Message:  "Document fragment has no children",
		Detail:   "Document-fragment nodes must contain at least one child.",
		DocURL:   "https://hart.dev/docs/errors/E004",
	},
	"E005": {
		Category: CategoryBuild,
		Message:  "Document fragment has attributes",
		Detail:   "Document-fragment nodes may not be given attributes.",
		DocURL:   "https://hart.dev/docs/errors/E005",
	},
	"E006": {
		Category: CategoryBuild,
		Message:  "Invalid child value",
		Detail:   "Children must be lazy nodes, node lists, child packs, scalars or nil.",
		DocURL:   "https://hart.dev/docs/errors/E006",
	},
	"E009": {
		Category: CategoryBuild,
		Message:  "Conflicting component options",
		Detail:   "Prop checks can not be added to cacheless components.",
		DocURL:   "https://hart.dev/docs/errors/E009",
	},
	"E010": {
		Category: CategoryBuild,
		Message:  "App closed",
		Detail:   "The app has been closed and can no longer render.",
		DocURL:   "https://hart.dev/docs/errors/E010",
	},
	"E011": {
		Category: CategoryBuild,
		Message:  "Component panicked during render",
		Detail:   "A component function panicked while the tree was being built.",
		DocURL:   "https://hart.dev/docs/errors/E011",
	},

	// ============================================
	// Patch Errors (E007-E008, E020-E039)
	// ============================================

	"E007": {
		Category: CategoryPatch,
		Message:  "Unknown change operation",
		Detail:   "The patcher received a change operation type it does not know. This is an internal invariant violation.",
		DocURL:   "https://hart.dev/docs/errors/E007",
	},
	"E008": {
		Category: CategoryPatch,
		Message:  "Unknown attribute change",
		Detail:   "The patcher received an attribute delta that is neither SET nor DELETE.",
		DocURL:   "https://hart.dev/docs/errors/E008",
	},
	"E020": {
		Category: CategoryPatch,
		Message:  "Node is not live",
		Detail:   "A change operation targeted a node that has no DOM handle.",
		DocURL:   "https://hart.dev/docs/errors/E020",
	},

	// ============================================
	// Config Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryConfig,
		Message:  "Invalid hart.json",
		Detail:   "The configuration file could not be parsed.",
		DocURL:   "https://hart.dev/docs/errors/E100",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range or malformed.",
		DocURL:   "https://hart.dev/docs/errors/E101",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Unsupported config format",
		Detail:   "Configuration files must end in .json, .yaml or .yml.",
		DocURL:   "https://hart.dev/docs/errors/E102",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryCLI,
		Message:  "Recording failed",
		Detail:   "The render pass log could not be written to its sink.",
		DocURL:   "https://hart.dev/docs/errors/E140",
	},
	"E141": {
		Category: CategoryCLI,
		Message:  "Inspector failed",
		Detail:   "The inspector server stopped unexpectedly.",
		DocURL:   "https://hart.dev/docs/errors/E141",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
