//go:build js && wasm

// Package dom binds form.Handler to the live document when compiled to
// WebAssembly.
package dom

import (
	"context"
	"errors"
	"fmt"
	"syscall/js"

	"go.uber.org/zap"

	"github.com/janisto/greet-playground/internal/form"
	applog "github.com/janisto/greet-playground/internal/platform/logging"
	"github.com/janisto/greet-playground/internal/service/greeter"
)

// IDs of the elements rendered by the page.
const (
	FormID     = "greet-form"
	NameID     = "name"
	GreetingID = "greeting"
	ErrorID    = "error"
)

// Front is the audit name of the browser binding.
const Front = "wasm"

// Element wraps a DOM element.
type Element struct{ v js.Value }

func (e Element) Value() string              { return e.v.Get("value").String() }
func (e Element) SetDisabled(disabled bool)  { e.v.Set("disabled", disabled) }
func (e Element) SetTextContent(text string) { e.v.Set("textContent", text) }
func (e Element) QuerySelector(sel string) Element {
	return Element{e.v.Call("querySelector", sel)}
}

func (e Element) ok() bool { return e.v.Truthy() }

// Event wraps a DOM event.
type Event struct{ v js.Value }

func (ev Event) PreventDefault() { ev.v.Call("preventDefault") }

// Document is the page's document object.
func Document() js.Value {
	return js.Global().Get("document")
}

// Origin is window.location.origin.
func Origin() string {
	return js.Global().Get("location").Get("origin").String()
}

func byID(doc js.Value, id string) Element {
	return Element{doc.Call("getElementById", id)}
}

// Elements looks up the form's handles in doc.
func Elements(doc js.Value) (Element, form.Elements, error) {
	formEl := byID(doc, FormID)
	if !formEl.ok() {
		return Element{}, form.Elements{}, fmt.Errorf("dom: #%s not found", FormID)
	}
	input := byID(doc, NameID)
	if !input.ok() {
		return Element{}, form.Elements{}, fmt.Errorf("dom: #%s not found", NameID)
	}
	button := formEl.QuerySelector("button")
	if !button.ok() {
		return Element{}, form.Elements{}, errors.New("dom: form has no button")
	}
	greeting := byID(doc, GreetingID)
	if !greeting.ok() {
		return Element{}, form.Elements{}, fmt.Errorf("dom: #%s not found", GreetingID)
	}

	elems := form.Elements{
		Name:     input,
		Submit:   button,
		Greeting: form.TextContent(greeting),
	}
	if errEl := byID(doc, ErrorID); errEl.ok() {
		elems.Error = form.TextContent(errEl)
	}
	return formEl, elems, nil
}

// Bind attaches a submit listener to the page's form. Begin runs inside the
// DOM callback so the default navigation is still preventable; the call to
// svc runs on its own goroutine because fetch must not block the event loop.
// The returned function removes the listener.
func Bind(ctx context.Context, doc js.Value, svc greeter.Service, opts ...form.Option) (func(), error) {
	formEl, elems, err := Elements(doc)
	if err != nil {
		return nil, err
	}
	h, err := form.NewHandler(svc, elems, append([]form.Option{form.WithAudit(Front, "")}, opts...)...)
	if err != nil {
		return nil, err
	}

	listener := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		s, err := h.Begin(Event{args[0]})
		if err != nil {
			if errors.Is(err, form.ErrBusy) {
				applog.LogInfo(ctx, "submission ignored while busy")
				return nil
			}
			applog.LogError(ctx, "submission rejected", err)
			return nil
		}
		go func() {
			if err := s.Run(ctx); err != nil {
				applog.LogWarn(ctx, "submission failed", zap.Error(err))
			}
		}()
		return nil
	})
	formEl.v.Call("addEventListener", "submit", listener)
	return func() {
		formEl.v.Call("removeEventListener", "submit", listener)
		listener.Release()
	}, nil
}
