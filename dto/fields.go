package dto

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin/binding"

	"taskboss/utils"
)

// FieldMap translates client JSON keys (camelCase or snake_case) to
// column names. Keys missing from the map are ignored.
type FieldMap map[string]string

// Normalize rekeys raw by column. When a body carries both spellings of
// the same field, the snake_case (column) spelling wins.
func (m FieldMap) Normalize(raw map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(raw))
	for key, val := range raw {
		col, ok := m[key]
		if !ok {
			continue
		}
		if _, exact := raw[col]; exact && key != col {
			continue
		}
		out[col] = val
	}
	return out
}

// Fields records which columns a request body carried.
type Fields map[string]bool

func (f Fields) Has(col string) bool { return f[col] }

// decodeFields normalizes raw with m, decodes it into out and runs the
// binding validator over out.
func decodeFields(raw map[string]json.RawMessage, m FieldMap, out any) (Fields, error) {
	utils.InitValidator()

	norm := m.Normalize(raw)
	b, err := json.Marshal(norm)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("invalid value for %s", typeErr.Field)
		}
		return nil, err
	}
	if err := binding.Validator.ValidateStruct(out); err != nil {
		return nil, errors.New(utils.FormatValidationError(err))
	}

	present := make(Fields, len(norm))
	for col := range norm {
		present[col] = true
	}
	return present, nil
}
