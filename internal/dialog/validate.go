package dialog

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a field path such as "deviceFunctions[0].name" to its message.
type FieldErrors map[string]string

// Messager is implemented by forms that provide their own messages. Keys
// are field paths without indexes ("deviceFunctions.name") or the same
// path suffixed with ":" and the failed tag ("email:email").
type Messager interface {
	Messages() map[string]string
}

var defaultMessages = map[string]string{
	"required": "Trường này là bắt buộc.",
	"email":    "Email không hợp lệ.",
	"oneof":    "Giá trị không hợp lệ.",
	"min":      "Giá trị quá nhỏ.",
	"max":      "Giá trị quá lớn.",
	"gte":      "Giá trị quá nhỏ.",
	"numeric":  "Giá trị phải là số.",
}

var indexPattern = regexp.MustCompile(`\[\d+\]`)

// Validator checks forms against their `validate` struct tags and reports
// errors under the json names of the fields.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Validate returns nil when form is valid.
func (val *Validator) Validate(form any) (FieldErrors, error) {
	err := val.v.Struct(form)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	var custom map[string]string
	if m, ok := form.(Messager); ok {
		custom = m.Messages()
	}

	out := FieldErrors{}
	for _, fe := range verrs {
		path := fieldPath(fe.Namespace())
		if _, seen := out[path]; seen {
			continue
		}
		out[path] = message(custom, path, fe.Tag())
	}
	return out, nil
}

// fieldPath strips the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(custom map[string]string, path, tag string) string {
	generic := indexPattern.ReplaceAllString(path, "")
	for _, key := range []string{generic + ":" + tag, generic} {
		if msg, ok := custom[key]; ok {
			return msg
		}
	}
	if msg, ok := defaultMessages[tag]; ok {
		return msg
	}
	return "Giá trị không hợp lệ."
}
