package errors

// Convenience constructors for the error conditions the build pipeline produces.

// Config errors

func ConfigNotFound(path string) *BuildError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigRequired(field string) *BuildError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func ValidationFailed(field, reason string) *BuildError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Wiki API errors

func LoginFailed(username string, cause error) *BuildError {
	return Wrap(cause, CategoryAuth, SeverityFatal, "wiki login failed").
		WithContext("username", username)
}

func RequestFailed(url string, cause error) *BuildError {
	return Wrap(cause, CategoryNetwork, SeverityFatal, "wiki request failed").
		WithContext("url", url)
}

// TransientHTTP marks a request failure that may succeed on retry (429/5xx).
func TransientHTTP(url string, status int) *BuildError {
	return WrapRetryable(nil, CategoryNetwork, SeverityWarning, "transient wiki response").
		WithContext("url", url).
		WithContext("status", status)
}

// Parse errors

// StructureParse is fatal: the outline did not parse into a valid nested-list
// tree, so no partial tree is produced and the build aborts before rendering.
func StructureParse(cause error) *BuildError {
	return Wrap(cause, CategoryParse, SeverityFatal, "outline does not parse into a nested-list tree")
}

func ExportParse(cause error) *BuildError {
	return Wrap(cause, CategoryParse, SeverityFatal, "export bundle is not valid XML")
}

func PageNotFound(title string) *BuildError {
	return New(CategoryParse, SeverityFatal, "page not found in export bundle").
		WithContext("title", title)
}

// Transclusion and conversion errors

func TransclusionFetch(title string, cause error) *BuildError {
	return Wrap(cause, CategoryNetwork, SeverityFatal, "transclusion fetch failed").
		WithContext("title", title)
}

func ConversionFailed(from, to string, cause error) *BuildError {
	return Wrap(cause, CategoryConvert, SeverityFatal, "markup conversion failed").
		WithContext("from", from).
		WithContext("to", to)
}

// Render errors

func RenderFailed(title string, cause error) *BuildError {
	return Wrap(cause, CategoryRender, SeverityFatal, "chapter render failed").
		WithContext("title", title)
}

func DuplicateChapterFile(name, title, previous string) *BuildError {
	return New(CategoryRender, SeverityFatal, "two titles map to the same chapter file").
		WithContext("file", name).
		WithContext("title", title).
		WithContext("previous_title", previous)
}

// Filesystem and external tool errors

func WorkspaceError(operation string, cause error) *BuildError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "workspace operation failed").
		WithContext("operation", operation)
}

func LatexRunFailed(cause error) *BuildError {
	return Wrap(cause, CategoryLatex, SeverityFatal, "pdflatex run failed")
}

// Internal errors

func InternalError(message string, cause error) *BuildError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
