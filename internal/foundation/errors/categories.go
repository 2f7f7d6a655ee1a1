package errors

// ErrorCategory names the failure class of a run problem. The category picks
// the report issue code and the process exit code.
type ErrorCategory string

const (
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// CategoryLoad covers metadata that cannot be loaded at all. Always run-aborting.
	CategoryLoad ErrorCategory = "load"
	// CategoryResolution covers references to types or members that cannot be located.
	CategoryResolution ErrorCategory = "resolution"
	// CategoryComment covers documentation comment lookups and corpus parsing.
	CategoryComment ErrorCategory = "comment"
	// CategoryOutput covers page destination failures.
	CategoryOutput ErrorCategory = "output"

	CategoryCanceled ErrorCategory = "canceled"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity says how far a problem reaches.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // the run stops
	SeverityError   ErrorSeverity = "error"   // one page or operation is lost
	SeverityWarning ErrorSeverity = "warning" // output degrades but is complete
	SeverityInfo    ErrorSeverity = "info"
)

// ErrorContext carries the structured details of an error. Values are logged
// as attributes and the subject keys feed the run report.
type ErrorContext map[string]any

// subjectKeys are the context keys that name what an error is about, most
// specific first.
var subjectKeys = []string{"symbol", "reference", "type", "page", "path"}

func (c ErrorContext) with(key string, value any) ErrorContext {
	next := make(ErrorContext, len(c)+1)
	for k, v := range c {
		next[k] = v
	}
	next[key] = value
	return next
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	value, exists := c[key]
	return value, exists
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	if value, exists := c.Get(key); exists {
		if str, ok := value.(string); ok {
			return str, true
		}
	}
	return "", false
}

// Subject returns the most specific thing the context names: a symbol ID,
// a reference, a type, a page or a path. Empty when none is set.
func (c ErrorContext) Subject() string {
	for _, key := range subjectKeys {
		if v, ok := c.GetString(key); ok && v != "" {
			return v
		}
	}
	return ""
}
