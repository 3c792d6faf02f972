// Package tools exposes every domain query as a named tool with a typed,
// validated argument struct.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Tool errors.
var (
	// ErrUnknownTool is returned when no tool has the requested name.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInvalidArguments is wrapped by every ArgumentError.
	ErrInvalidArguments = errors.New("invalid arguments")
)

// Parameter describes one tool argument.
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
}

// Descriptor describes a tool for listing.
type Descriptor struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
}

// Result is the outcome of a tool invocation.
type Result struct {
	Tool   string `json:"tool"`
	Count  int    `json:"count"`
	Result any    `json:"result"`
}

// FieldError is a single argument validation failure.
type FieldError struct {
	Field   string
	Message string
	Code    string
}

// ArgumentError reports arguments that could not be decoded or validated.
type ArgumentError struct {
	Tool   string
	Detail string
	Fields []FieldError
}

func (e *ArgumentError) Error() string {
	var b strings.Builder
	b.WriteString("invalid arguments for ")
	b.WriteString(e.Tool)
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	for _, f := range e.Fields {
		b.WriteString("; ")
		b.WriteString(f.Field)
		b.WriteString(" ")
		b.WriteString(f.Message)
	}
	return b.String()
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArguments
}

type tool struct {
	Descriptor
	newArgs func() any
	run     func(ctx context.Context, args any) (any, error)
}

// define builds a tool around a typed handler. The argument type drives both
// decoding and the parameter listing.
func define[A any, R any](name, description string, run func(context.Context, A) (R, error)) tool {
	return tool{
		Descriptor: Descriptor{
			Name:        name,
			Description: description,
			Parameters:  parameters(reflect.TypeOf((*A)(nil)).Elem()),
		},
		newArgs: func() any { return new(A) },
		run: func(ctx context.Context, args any) (any, error) {
			switch a := args.(type) {
			case *A:
				return run(ctx, *a)
			case A:
				return run(ctx, a)
			default:
				return nil, &ArgumentError{Tool: name, Detail: fmt.Sprintf("expected %T, got %T", *new(A), args)}
			}
		},
	}
}

// Registry holds the named tools.
type Registry struct {
	tools    map[string]tool
	validate *validator.Validate
	logger   zerolog.Logger
}

func newRegistry(logger zerolog.Logger, defs ...tool) *Registry {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	r := &Registry{
		tools:    make(map[string]tool, len(defs)),
		validate: v,
		logger:   logger.With().Str("component", "tools").Logger(),
	}
	for _, d := range defs {
		r.tools[d.Name] = d
	}
	return r
}

// List returns the tool descriptors sorted by name.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t.Descriptor)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the descriptor for name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	t, ok := r.tools[name]
	return t.Descriptor, ok
}

// Invoke decodes raw JSON arguments and runs the named tool. An empty body is
// treated as an empty argument object.
func (r *Registry) Invoke(ctx context.Context, name string, raw json.RawMessage) (*Result, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	args := t.newArgs()
	if body := bytes.TrimSpace(raw); len(body) > 0 && !bytes.Equal(body, []byte("null")) {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.DisallowUnknownFields()
		if err := dec.Decode(args); err != nil {
			return nil, &ArgumentError{Tool: name, Detail: err.Error()}
		}
	}

	return r.call(ctx, t, args)
}

// Call runs the named tool with an already-built argument struct (value or
// pointer of the tool's argument type).
func (r *Registry) Call(ctx context.Context, name string, args any) (*Result, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return r.call(ctx, t, args)
}

func (r *Registry) call(ctx context.Context, t tool, args any) (*Result, error) {
	if err := r.validate.Struct(args); err != nil {
		return nil, r.argumentError(t.Name, err)
	}

	r.logger.Debug().Str("tool", t.Name).Interface("args", args).Msg("invoking tool")

	out, err := t.run(ctx, args)
	if err != nil {
		return nil, err
	}

	return &Result{Tool: t.Name, Count: count(out), Result: out}, nil
}

func (r *Registry) argumentError(name string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ArgumentError{Tool: name, Detail: err.Error()}
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
			Code:    fe.Tag(),
		})
	}
	return &ArgumentError{Tool: name, Detail: "argument validation failed", Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "latitude":
		return "must be a valid latitude"
	case "longitude":
		return "must be a valid longitude"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func count(v any) int {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Invalid:
		return 0
	case reflect.Slice:
		return rv.Len()
	case reflect.Pointer:
		if rv.IsNil() {
			return 0
		}
	}
	return 1
}

func parameters(t reflect.Type) []Parameter {
	params := make([]Parameter, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		params = append(params, Parameter{
			Name:        name,
			Type:        jsonType(f.Type),
			Required:    hasRule(f.Tag.Get("validate"), "required"),
			Description: f.Tag.Get("desc"),
		})
	}
	return params
}

func hasRule(tag, rule string) bool {
	for _, r := range strings.Split(tag, ",") {
		if r == rule {
			return true
		}
	}
	return false
}

func jsonType(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	default:
		return "string"
	}
}
