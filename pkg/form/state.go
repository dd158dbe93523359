package form

// State is a read-only snapshot of a Form for rendering. Maps are copies;
// mutating them does not affect the form.
type State struct {
	Values      Values            `json:"values"`
	Errors      map[string]string `json:"errors"`
	Visible     map[string]string `json:"visible"`
	Touched     map[string]bool   `json:"touched"`
	IsValid     bool              `json:"isValid"`
	Dirty       bool              `json:"dirty"`
	SubmitCount int               `json:"submitCount"`
}

// State captures the current values, errors and flags.
func (f *Form) State() State {
	state := State{
		Values:      f.values.Clone(),
		Errors:      make(map[string]string, len(f.errors)),
		Visible:     make(map[string]string, len(f.errors)),
		Touched:     make(map[string]bool, len(f.schema.fields)),
		IsValid:     f.IsValid(),
		Dirty:       f.Dirty(),
		SubmitCount: f.submitCount,
	}
	for name, msg := range f.errors {
		state.Errors[name] = msg
		if f.visible(name) {
			state.Visible[name] = msg
		}
	}
	for _, field := range f.schema.fields {
		state.Touched[field.Name] = f.touched[field.Name]
	}
	return state
}
