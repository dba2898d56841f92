package view

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/agentuity/resource-console/tui"
	"github.com/cockroachdb/errors"
)

// ErrInvalidInput is returned for form values rejected before any request.
var ErrInvalidInput = errors.New("invalid input")

// ErrUnknownField is returned when setting a field the form does not have.
var ErrUnknownField = errors.New("unknown field")

// Field is one editable form value.
type Field struct {
	Name     string
	Label    string
	Required bool
}

// Values holds form values by field name.
type Values map[string]string

// ParseAssignments turns "name=value" arguments into Values.
func ParseAssignments(args []string) (Values, error) {
	v := make(Values, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.Mark(errors.Newf("expected name=value, got %q", arg), ErrInvalidInput)
		}
		v[name] = value
	}
	return v, nil
}

// Form is the local editable state of a page. Seed copies server data in
// exactly once, so later refetches never overwrite what the user typed.
type Form struct {
	mu     sync.Mutex
	fields []Field
	values Values
	seeded bool
	err    string
}

// NewForm returns an empty form with fields.
func NewForm(fields []Field) *Form {
	return &Form{fields: fields, values: Values{}}
}

// Seed fills the form from values the first time it is called and reports
// whether it did.
func (f *Form) Seed(values Values) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seeded {
		return false
	}
	f.seeded = true
	for _, field := range f.fields {
		if _, ok := f.values[field.Name]; !ok {
			f.values[field.Name] = values[field.Name]
		}
	}
	return true
}

// Seeded reports whether Seed has run.
func (f *Form) Seeded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seeded
}

func (f *Form) field(name string) (Field, bool) {
	for _, field := range f.fields {
		if strings.EqualFold(field.Name, name) {
			return field, true
		}
	}
	return Field{}, false
}

// Set assigns every value. Nothing is assigned when a name is unknown.
func (f *Form) Set(values Values) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(values))
	for name := range values {
		if _, ok := f.field(name); !ok {
			return errors.Wrapf(ErrUnknownField, "%q", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		field, _ := f.field(name)
		f.values[field.Name] = values[name]
	}
	return nil
}

// Values returns a copy of the current values.
func (f *Form) Values() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(Values, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Validate checks required fields.
func (f *Form) Validate() error {
	return validate(f.fields, f.Values())
}

func validate(fields []Field, values Values) error {
	var missing []string
	for _, field := range fields {
		if field.Required && strings.TrimSpace(values[field.Name]) == "" {
			missing = append(missing, field.Label)
		}
	}
	if len(missing) > 0 {
		return errors.Mark(errors.Newf("%s required", strings.Join(missing, ", ")), ErrInvalidInput)
	}
	return nil
}

// SetError records the message shown under the form.
func (f *Form) SetError(msg string) {
	f.mu.Lock()
	f.err = msg
	f.mu.Unlock()
}

// Error returns the message shown under the form.
func (f *Form) Error() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Prompt asks for every field in turn, offering the current value.
func (f *Form) Prompt(ctx context.Context, p Prompter) error {
	for _, field := range f.fields {
		current := f.Values()[field.Name]
		value, err := p.Input(ctx, field.Label, current)
		if err != nil {
			return err
		}
		if err := f.Set(Values{field.Name: value}); err != nil {
			return err
		}
	}
	return nil
}

// Render writes the fields and the last error.
func (f *Form) Render(w io.Writer, maxCell int) {
	values := f.Values()
	pairs := make([][2]string, 0, len(f.fields))
	for _, field := range f.fields {
		label := field.Label
		if field.Required {
			label += " *"
		}
		pairs = append(pairs, [2]string{label, values[field.Name]})
	}
	tui.KeyValues(w, pairs, maxCell)
	if msg := f.Error(); msg != "" {
		tui.ShowError(w, "%s", msg)
	}
}
