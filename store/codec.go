package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/josephgoksu/litedo/models"
	"github.com/josephgoksu/litedo/types"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	yaml "gopkg.in/yaml.v3"
)

// Format is an on-disk encoding of the task payload.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported format: %s. Supported formats are json, yaml, toml", s)
}

// FormatForPath picks the format from a file extension, defaulting to JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	}
	return FormatJSON
}

// Payload is the document written to an external file or export.
type Payload struct {
	ExportDate          string          `json:"exportDate" yaml:"exportDate" toml:"exportDate"`
	LastKnownModifiedMs int64           `json:"lastKnownModifiedMs,omitempty" yaml:"lastKnownModifiedMs,omitempty" toml:"lastKnownModifiedMs,omitempty"`
	Tasks               []models.Record `json:"tasks" yaml:"tasks" toml:"tasks"`
}

// NewPayload wraps tasks with export metadata.
func NewPayload(tasks []models.Task, exportedAt time.Time, lastKnownModifiedMs int64) Payload {
	p := Payload{
		ExportDate:          exportedAt.UTC().Format(time.RFC3339),
		LastKnownModifiedMs: lastKnownModifiedMs,
		Tasks:               make([]models.Record, len(tasks)),
	}
	for i, t := range tasks {
		p.Tasks[i] = t.ToRecord()
	}
	return p
}

// Encode serializes a payload in the given format.
func Encode(format Format, p Payload) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return data, nil
	case FormatTOML:
		buf := new(bytes.Buffer)
		if err := toml.NewEncoder(buf).Encode(p); err != nil {
			return nil, fmt.Errorf("failed to marshal TOML: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unsupported data format for saving: %s", format)
}

// Decode parses a task collection. JSON input may be a bare array of task
// records or an object with a tasks array; YAML and TOML are normalized to the
// same shape first. Anything else is a format error.
func Decode(format Format, data []byte) ([]models.Task, error) {
	switch format {
	case FormatJSON, "":
	case FormatYAML:
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, formatError("invalid YAML", err)
		}
		converted, err := json.Marshal(normalizeDates(doc))
		if err != nil {
			return nil, formatError("YAML document cannot be represented as JSON", err)
		}
		data = converted
	case FormatTOML:
		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, formatError("invalid TOML", err)
		}
		converted, err := json.Marshal(normalizeDates(doc))
		if err != nil {
			return nil, formatError("TOML document cannot be represented as JSON", err)
		}
		data = converted
	default:
		return nil, formatError(fmt.Sprintf("unsupported data format: %s", format), nil)
	}
	return decodeJSON(data)
}

// normalizeDates turns unquoted YAML timestamps and TOML dates back into the
// date and wall-clock strings task records carry. Maps and slices are
// rewritten in place.
func normalizeDates(v any) any {
	switch x := v.(type) {
	case time.Time:
		return dateString(x)
	case map[string]any:
		for k, e := range x {
			x[k] = normalizeDates(e)
		}
	case []map[string]any:
		for _, m := range x {
			normalizeDates(m)
		}
	case []any:
		for i, e := range x {
			x[i] = normalizeDates(e)
		}
	}
	return v
}

func dateString(t time.Time) string {
	// BurntSushi/toml marks local dates and times with these zone names.
	switch t.Location().String() {
	case "date-local":
		return t.Format(models.DateLayout)
	case "time-local":
		if t.Second() != 0 {
			return t.Format("15:04:05")
		}
		return t.Format(models.TimeLayout)
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(models.DateLayout)
	}
	return t.Format(time.RFC3339)
}

func decodeJSON(data []byte) ([]models.Task, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, formatError("empty payload", nil)
	}

	var doc any
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, formatError("invalid JSON", err)
	}
	schema, err := payloadSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, formatError("not a task collection", schemaCause(err))
	}

	var records []models.Record
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, formatError("invalid task array", err)
		}
	} else {
		var p Payload
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return nil, formatError("invalid task payload", err)
		}
		records = p.Tasks
	}

	tasks := make([]models.Task, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		if _, dup := seen[r.ID]; dup {
			return nil, formatError(fmt.Sprintf("duplicate task id %q", r.ID), nil)
		}
		seen[r.ID] = struct{}{}
		tasks[i] = r.ToTask()
	}
	return tasks, nil
}

//go:embed schema/tasks.schema.json
var payloadSchemaSource string

const payloadSchemaURL = "https://litedo.local/schema/tasks.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func payloadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(payloadSchemaURL, strings.NewReader(payloadSchemaSource)); err != nil {
			schemaErr = fmt.Errorf("load payload schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(payloadSchemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile payload schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// schemaCause reduces a schema failure to the leaf cause deepest in the
// document. With the array and object shapes both rejected, that is the
// branch that got furthest into the input.
func schemaCause(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	ve = deepestCause(ve)
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Errorf("at %s: %s", loc, ve.Message)
}

func deepestCause(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return ve
	}
	best := deepestCause(ve.Causes[0])
	for _, c := range ve.Causes[1:] {
		if leaf := deepestCause(c); locationDepth(leaf.InstanceLocation) > locationDepth(best.InstanceLocation) {
			best = leaf
		}
	}
	return best
}

func locationDepth(loc string) int {
	return strings.Count(strings.TrimSuffix(loc, "/"), "/")
}

func formatError(msg string, err error) error {
	return types.NewError(types.KindFormat, msg, err)
}
