package errors

import "sort"

// ErrorTemplate defines a registered diagnostic.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://vango.dev/docs/reactivity/errors/"

// registry maps codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Warnings (R001-R099)
	// ============================================

	"R001": {
		Category: CategoryRuntime,
		Message:  "Value cannot be made reactive",
		Detail:   "Only *Object, *Array, *Map, *Set, *WeakMap and *WeakSet values can be wrapped. The value is returned unchanged.",
		DocURL:   docBase + "R001",
	},
	"R002": {
		Category: CategoryRuntime,
		Message:  "Set operation failed: target is readonly",
		Detail:   "A write was attempted through a readonly proxy. The underlying data was not modified.",
		DocURL:   docBase + "R002",
	},
	"R003": {
		Category: CategoryRuntime,
		Message:  "Delete operation failed: target is readonly",
		Detail:   "A delete was attempted through a readonly proxy. The underlying data was not modified.",
		DocURL:   docBase + "R003",
	},
	"R004": {
		Category: CategoryRuntime,
		Message:  "Collection mutation failed: target is readonly",
		Detail:   "Add, Set, Delete and Clear are no-ops on readonly collections.",
		DocURL:   docBase + "R004",
	},
	"R005": {
		Category: CategoryRuntime,
		Message:  "ToRefs expects a reactive object",
		Detail:   "ToRefs was called with a plain object. The returned refs will not be reactive.",
		DocURL:   docBase + "R005",
	},
	"R006": {
		Category: CategoryRuntime,
		Message:  "Write operation failed: computed value is readonly",
		Detail:   "The computed value was created without a setter.",
		DocURL:   docBase + "R006",
	},
	"R007": {
		Category: CategoryRuntime,
		Message:  "Invalid array key",
		Detail:   "Array keys are non-negative int indices or \"length\"; length must be set to a non-negative int.",
		DocURL:   docBase + "R007",
	},
	"R008": {
		Category: CategoryRuntime,
		Message:  "Invalid weak collection key",
		Detail:   "WeakMap keys and WeakSet values must be non-nil targets. The operation was ignored.",
		DocURL:   docBase + "R008",
	},
	"R009": {
		Category: CategoryRuntime,
		Message:  "Ref write ignored: value has the wrong type",
		Detail:   "A property holding a typed ref was assigned a value of another type. The ref keeps its value and Set reports false.",
		DocURL:   docBase + "R009",
	},

	// ============================================
	// Scheduler Errors (R100-R119)
	// ============================================

	"R100": {
		Category: CategoryScheduler,
		Message:  "Flush budget exceeded",
		Detail:   "An effect was re-queued more times than the flush budget allows. This usually means an effect writes state it also reads.",
		DocURL:   docBase + "R100",
	},
	"R101": {
		Category: CategoryScheduler,
		Message:  "Scheduler loop closed",
		Detail:   "Work was submitted to a loop that has already been closed.",
		DocURL:   docBase + "R101",
	},
	"R102": {
		Category: CategoryScheduler,
		Message:  "Panic in scheduled work",
		Detail:   "A function run on the scheduler loop panicked. The loop recovered and keeps running.",
		DocURL:   docBase + "R102",
	},

	// ============================================
	// Config Errors (R120-R139)
	// ============================================

	"R120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file is malformed.",
		DocURL:   docBase + "R120",
	},
	"R121": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No reactivity.json or reactivity.yaml was found.",
		DocURL:   docBase + "R121",
	},
	"R122": {
		Category: CategoryConfig,
		Message:  "Invalid port number",
		Detail:   "The configured port number must be between 0 and 65535.",
		DocURL:   docBase + "R122",
	},
	"R123": {
		Category: CategoryConfig,
		Message:  "Invalid limit",
		Detail:   "Budgets and buffer sizes must not be negative.",
		DocURL:   docBase + "R123",
	},

	// ============================================
	// CLI and Devtools Errors (R140-R159)
	// ============================================

	"R140": {
		Category: CategoryCLI,
		Message:  "Unknown demo scenario",
		Detail:   "The requested scenario is not registered. Run 'reactivity demo --list' to see available scenarios.",
		DocURL:   docBase + "R140",
	},
	"R141": {
		Category: CategoryCLI,
		Message:  "Configuration file already exists",
		Detail:   "reactivity init refuses to overwrite an existing configuration file.",
		DocURL:   docBase + "R141",
	},
	"R150": {
		Category: CategoryDevtools,
		Message:  "Inspector server failed",
		Detail:   "The devtools inspector could not serve requests.",
		DocURL:   docBase + "R150",
	},
	"R151": {
		Category: CategoryDevtools,
		Message:  "Invalid inspector request",
		Detail:   "A query parameter sent to the inspector could not be parsed.",
		DocURL:   docBase + "R151",
	},
}

// GetAllCodes returns all registered codes in sorted order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for a code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds or replaces a template. Intended for init-time use.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
