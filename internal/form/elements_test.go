package form

import "testing"

type node struct{ text string }

func (n *node) SetTextContent(text string) { n.text = text }

func TestTextContentAdapter(t *testing.T) {
	n := &node{text: "old"}
	TextContent(n).SetText("Hello, Ada!")
	if n.text != "Hello, Ada!" {
		t.Fatalf("expected text content to be replaced, got %q", n.text)
	}
}

func TestEventFuncNilIsSafe(t *testing.T) {
	var ev EventFunc
	ev.PreventDefault()

	called := false
	EventFunc(func() { called = true }).PreventDefault()
	if !called {
		t.Fatal("expected function to run")
	}
}

func TestValueInput(t *testing.T) {
	if got := Value(" Ada ").Value(); got != " Ada " {
		t.Fatalf("expected value verbatim, got %q", got)
	}
}
