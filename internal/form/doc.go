// Package form implements the greeting form's submit handler.
//
// The handler never looks elements up itself. Each front end (browser DOM,
// server-rendered page, CLI) injects handles for the name input, the submit
// button and the output elements, and forwards submit events.
//
// A submission runs in two halves. Begin executes synchronously while the
// event is being dispatched: it prevents the default action, reads the
// input, claims the guard and disables the button. Run then awaits the
// collaborator and always re-enables the button before writing the result.
package form
