package process

import (
	"encoding/json"
	"reflect"
)

// MetadataChanged reports whether the stored metadata snapshot differs
// structurally from the freshly computed one. The stored bytes are
// decoded into the fresh snapshot's own type before comparing, so key
// order and JSON formatting never register as changes. An empty or
// undecodable stored snapshot counts as changed.
func MetadataChanged(stored json.RawMessage, fresh any) bool {
	if len(stored) == 0 {
		return true
	}

	target := reflect.New(reflect.TypeOf(fresh))
	if err := json.Unmarshal(stored, target.Interface()); err != nil {
		return true
	}

	return !reflect.DeepEqual(target.Elem().Interface(), fresh)
}
