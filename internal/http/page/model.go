package page

import "github.com/janisto/greet-playground/internal/form"

// model is the per-request state of the rendered form. It stands in for the
// DOM elements when a submission runs server side.
type model struct {
	name      string
	greeting  string
	errText   string
	disabled  bool
	prevented bool
}

type (
	nameField   struct{ m *model }
	submitField struct{ m *model }
	greetField  struct{ m *model }
	errorField  struct{ m *model }
)

func (f nameField) Value() string               { return f.m.name }
func (f submitField) SetDisabled(disabled bool) { f.m.disabled = disabled }
func (f greetField) SetText(text string)        { f.m.greeting = text }
func (f errorField) SetText(text string)        { f.m.errText = text }

func (m *model) elements() form.Elements {
	return form.Elements{
		Name:     nameField{m},
		Submit:   submitField{m},
		Greeting: greetField{m},
		Error:    errorField{m},
	}
}

// prevent records that the default navigation was replaced by an in-place
// re-render.
func (m *model) prevent() {
	m.prevented = true
}
