package profile

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaCUE string

// profileSchema compiles the embedded schema and returns the #Profile
// definition. A cue.Context is not safe for concurrent use, so every check
// gets its own.
func profileSchema() (*cue.Context, cue.Value, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		return nil, cue.Value{}, fmt.Errorf("compile profile schema: %w", err)
	}
	def := v.LookupPath(cue.ParsePath("#Profile"))
	if err := def.Err(); err != nil {
		return nil, cue.Value{}, fmt.Errorf("lookup #Profile: %w", err)
	}
	return ctx, def, nil
}

// checkSchema unifies the generically decoded document with #Profile and
// reports the first violation as a malformed profile error.
func checkSchema(doc any) error {
	ctx, def, err := profileSchema()
	if err != nil {
		return err
	}

	v := def.Unify(ctx.Encode(doc))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return formatSchemaError(err)
	}
	return nil
}

// formatSchemaError extracts the path of the first CUE error.
func formatSchemaError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return malformed("", "%v", err)
	}

	first := errs[0]
	format, args := first.Msg()
	return &Error{
		Code:    CodeMalformedProfile,
		Field:   strings.Join(first.Path(), "."),
		Message: fmt.Sprintf(format, args...),
	}
}
