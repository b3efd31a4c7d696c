package widget

// Field is a column slot the widget asks the user to fill, e.g. "title"
// or "tags". Multiple fields accept more than one column.
type Field struct {
	Key      string `json:"key"                validate:"required"`
	Label    string `json:"label,omitempty"`
	Multiple bool   `json:"multiple,omitempty"`
}

// Settings is the static part of a widget instance.
type Settings struct {
	Columns []Field `json:"columns" validate:"dive"`
}

// Field returns the field declared under key.
func (s Settings) Field(key string) (Field, bool) {
	for _, f := range s.Columns {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Instance is what gets persisted when the editor saves.
type Instance struct {
	Settings Settings `json:"settings"`
	Result   Payload  `json:"result"`
}
