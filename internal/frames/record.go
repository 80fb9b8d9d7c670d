package frames

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// record is the decoded container before key normalisation. Both
// encodings decode into it so validation is shared.
type record struct {
	FPS        *float64         `json:"fps" validate:"required,gt=0"`
	Resolution *float64         `json:"resolution" validate:"omitempty,gte=0"`
	Frames     map[string]Frame `json:"frames" validate:"required,min=1"`
}

var recordValidator = newRecordValidator()

func newRecordValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their container names rather than Go names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// validate maps validation failures onto the container error taxonomy.
func (r *record) validate() error {
	err := recordValidator.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrFormat, err)
	}
	fe := verrs[0]
	switch {
	case fe.Tag() == "required":
		return fmt.Errorf("%w: %s", ErrMissingField, fe.Field())
	case fe.Field() == "frames" && fe.Tag() == "min":
		return ErrEmptyCollection
	default:
		return fmt.Errorf("%w: %s must satisfy %s=%s (got %v)", ErrFormat, fe.Field(), fe.Tag(), fe.Param(), fe.Value())
	}
}

// collection validates r and returns its frames in numeric key order.
func (r *record) collection() (*Collection, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	frames := make(map[int]Frame, len(r.Frames))
	for k, f := range r.Frames {
		idx, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("%w: frame key %q is not an integer", ErrFormat, k)
		}
		if _, dup := frames[idx]; dup {
			return nil, fmt.Errorf("%w: duplicate frame index %d", ErrFormat, idx)
		}
		frames[idx] = f
	}
	c, err := NewCollection(*r.FPS, frames)
	if err != nil {
		return nil, err
	}
	if r.Resolution != nil {
		c.Resolution = *r.Resolution
	}
	return c, nil
}
