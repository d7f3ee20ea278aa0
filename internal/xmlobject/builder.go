package xmlobject

import (
	"github.com/beevik/etree"
)

// Builder constructs XML objects of one kind.
// Builders hold no mutable state and may be shared across goroutines.
type Builder interface {
	// BuildObject creates a new, empty object with the given qualified name
	BuildObject(namespaceURI, localName, prefix string) XMLObject

	// BuildObjectFromElement creates a new, empty object whose qualified name
	// matches the element's. The element is not modified and must not be nil.
	// Unmarshalling relies on the names matching to populate the object.
	BuildObjectFromElement(el *etree.Element) XMLObject
}

// BuilderFunc adapts a constructor into a Builder.
// Both construction paths go through the constructor, so an object built
// from an element always carries exactly that element's name.
type BuilderFunc[T XMLObject] func(name QName) T

// BuildObject implements Builder
func (f BuilderFunc[T]) BuildObject(namespaceURI, localName, prefix string) XMLObject {
	return f(NewQName(namespaceURI, localName, prefix))
}

// BuildObjectFromElement implements Builder
func (f BuilderFunc[T]) BuildObjectFromElement(el *etree.Element) XMLObject {
	return f(ElementQName(el))
}

// Element is the generic object used for elements no registered builder
// knows about. It keeps attributes, text and children so extension content
// can still be inspected.
type Element struct {
	BaseObject

	Attrs    []etree.Attr
	Text     string
	Children []XMLObject
}

// NewElement creates an empty generic element
func NewElement(name QName) *Element {
	return &Element{BaseObject: NewBaseObject(name)}
}

// ElementBuilder builds generic elements
var ElementBuilder Builder = BuilderFunc[*Element](NewElement)

// OrderedChildren implements XMLObject
func (e *Element) OrderedChildren() []XMLObject {
	return e.Children
}

// Attr returns the value of an unqualified attribute, or "" if absent
func (e *Element) Attr(key string) string {
	for _, a := range e.Attrs {
		if a.Space == "" && a.Key == key {
			return a.Value
		}
	}
	return ""
}

// UnmarshalElement implements Unmarshalable
func (e *Element) UnmarshalElement(el *etree.Element, u *Unmarshaller) error {
	for _, a := range el.Attr {
		if a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns") {
			continue
		}
		e.Attrs = append(e.Attrs, a)
	}
	e.Text = el.Text()

	children, err := u.UnmarshalChildren(el)
	if err != nil {
		return err
	}
	e.Children = children
	return nil
}
