package persist

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed schema.cue
var schemaCUE string

// validator checks encoded documents against the #Document definition.
type validator struct {
	mu  sync.Mutex
	doc cue.Value
}

func newValidator() (*validator, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	doc := schema.LookupPath(cue.ParsePath("#Document"))
	if !doc.Exists() {
		return nil, fmt.Errorf("schema has no #Document definition")
	}
	return &validator{doc: doc}, nil
}

// validate reports the first schema violation in data, which must already
// be syntactically valid JSON.
func (v *validator) validate(data []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	expr, err := cuejson.Extract(Key, data)
	if err != nil {
		return fmt.Errorf("extract document: %w", err)
	}
	value := v.doc.Context().BuildExpr(expr)
	if err := value.Err(); err != nil {
		return fmt.Errorf("build document: %w", err)
	}
	if err := v.doc.Unify(value).Validate(cue.Concrete(true)); err != nil {
		return err
	}
	return nil
}

var (
	defaultValidatorOnce sync.Once
	defaultValidator     *validator
	defaultValidatorErr  error
)

// sharedValidator compiles the embedded schema once per process.
func sharedValidator() (*validator, error) {
	defaultValidatorOnce.Do(func() {
		defaultValidator, defaultValidatorErr = newValidator()
	})
	return defaultValidator, defaultValidatorErr
}
