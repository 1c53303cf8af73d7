package form

import "errors"

// Event is the submit event delivered by the front end.
type Event interface {
	PreventDefault()
}

// Input is the text field holding the name to greet.
type Input interface {
	Value() string
}

// Button is the form's submit button.
type Button interface {
	SetDisabled(disabled bool)
}

// Output is an element whose text content the handler replaces.
type Output interface {
	SetText(text string)
}

// Elements groups the handles a Handler drives. Error is optional; when nil,
// failures are only reported through the returned error.
type Elements struct {
	Name     Input
	Submit   Button
	Greeting Output
	Error    Output
}

func (e Elements) validate() error {
	var errs []error
	if e.Name == nil {
		errs = append(errs, errors.New("name input is required"))
	}
	if e.Submit == nil {
		errs = append(errs, errors.New("submit button is required"))
	}
	if e.Greeting == nil {
		errs = append(errs, errors.New("greeting output is required"))
	}
	return errors.Join(errs...)
}

// EventFunc adapts a function to Event.
type EventFunc func()

func (f EventFunc) PreventDefault() {
	if f != nil {
		f()
	}
}

// Value is a fixed Input.
type Value string

func (v Value) Value() string { return string(v) }

// TextContentSetter is implemented by DOM nodes.
type TextContentSetter interface {
	SetTextContent(text string)
}

// TextContent adapts a DOM node to Output.
func TextContent(n TextContentSetter) Output {
	return textContent{n}
}

type textContent struct{ n TextContentSetter }

func (t textContent) SetText(text string) { t.n.SetTextContent(text) }
