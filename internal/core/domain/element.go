package domain

import "strings"

// Element is the part of a page node the input layer needs: identity, tag, classes and attributes.
type Element struct {
	ID       string            `json:"id,omitempty"`
	Tag      string            `json:"tag"`
	Classes  []string          `json:"classes,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []Element         `json:"children,omitempty"`
}

func (e Element) HasClass(class string) bool {
	for _, c := range e.Classes {
		if c == class {
			return true
		}
	}
	return false
}

func (e Element) Attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

// Focusable matches button, [href], input, select, textarea and [tabindex] other than -1.
func (e Element) Focusable() bool {
	switch strings.ToLower(e.Tag) {
	case "button", "input", "select", "textarea":
		return true
	}
	if _, ok := e.Attrs["href"]; ok {
		return true
	}
	if v, ok := e.Attrs["tabindex"]; ok && strings.TrimSpace(v) != "-1" {
		return true
	}
	return false
}

// FirstFocusableDescendant walks the subtree depth-first in document order, excluding e itself.
func (e Element) FirstFocusableDescendant() (Element, bool) {
	for _, child := range e.Children {
		if child.Focusable() {
			return child, true
		}
		if found, ok := child.FirstFocusableDescendant(); ok {
			return found, true
		}
	}
	return Element{}, false
}

// Key names as reported by keyboard events.
const (
	KeyEnter  = "Enter"
	KeySpace  = " "
	KeyEscape = "Escape"
)
