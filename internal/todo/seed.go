package todo

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed seed.schema.json
var seedSchema string

const seedSchemaURL = "https://github.com/nibzard/tasks-go/seed.schema.json"

// SeedVersion is the only supported seed schema_version.
const SeedVersion = 1

// Seed is the on-disk format used to pre-populate a store.
type Seed struct {
	SchemaVersion int         `json:"schema_version"`
	Tasks         []SeedEntry `json:"tasks"`

	raw []byte // original document, if parsed from bytes
}

// SeedEntry is a single task in a seed file.
type SeedEntry struct {
	Title string `json:"title"`
	Done  bool   `json:"done,omitempty"`
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// UseSchema validates against the embedded JSON Schema.
	// When false, only minimal structural checks run.
	UseSchema bool
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

// LoadSeed reads and parses a seed file from path.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed parses seed file contents.
func ParseSeed(data []byte) (*Seed, error) {
	var s Seed
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	s.raw = data
	return &s, nil
}

// Validate validates the seed.
func (s *Seed) Validate(opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	if opts.UseSchema {
		schemaResult := validateWithSchema(s)
		result.UsedSchema = schemaResult.UsedSchema
		result.Warnings = append(result.Warnings, schemaResult.Warnings...)
		if schemaResult.UsedSchema {
			if !schemaResult.Valid {
				result.Valid = false
				result.Errors = append(result.Errors, schemaResult.Errors...)
			}
			return result
		}
		result.Warnings = append(result.Warnings, "JSON Schema validation not available, using minimal checks")
	}

	s.validateMinimal(result)
	return result
}

// Apply adds every seed entry to the store in order. Entries whose title is
// already taken are skipped and reported; the rest are still added.
func (s *Seed) Apply(store *Store) error {
	var errs []error
	for _, entry := range s.Tasks {
		task, err := store.Add(entry.Title)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if entry.Done {
			store.ToggleDone(task.ID)
		}
	}
	return errors.Join(errs...)
}

func (s *Seed) validateMinimal(result *ValidationResult) {
	if s.SchemaVersion != SeedVersion {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "schema_version",
			Err:  fmt.Errorf("expected %d, got %d", SeedVersion, s.SchemaVersion),
		})
	}

	if s.Tasks == nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "tasks",
			Err:  fmt.Errorf("missing required field"),
		})
		return
	}

	for i, entry := range s.Tasks {
		switch {
		case entry.Title == "":
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: fmt.Sprintf("tasks[%d].title", i),
				Err:  fmt.Errorf("missing required field"),
			})
		case strings.TrimSpace(entry.Title) == "":
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: fmt.Sprintf("tasks[%d].title", i),
				Err:  fmt.Errorf("title must not be blank"),
			})
		}
	}
}

func compileSeedSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(seedSchemaURL, strings.NewReader(seedSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile(seedSchemaURL)
}

func validateWithSchema(s *Seed) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	schema, err := compileSeedSchema()
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid schema: %v", err))
		return result
	}
	result.UsedSchema = true

	// Prefer the document as read so unknown fields are still caught.
	data := s.raw
	if data == nil {
		data, err = json.Marshal(s)
		if err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Errorf("failed to marshal seed for validation: %w", err))
			return result
		}
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Errorf("failed to unmarshal seed for validation: %w", err))
		return result
	}

	if err := schema.Validate(doc); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}
	return result
}

func appendSchemaErrors(result *ValidationResult, err error) {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// jsonPointerToPath turns "/tasks/0/title" into "tasks[0].title".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
