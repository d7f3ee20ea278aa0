package xmlobject

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"

	"github.com/beevik/etree"
)

// Unmarshaller turns element trees into typed objects using a Registry
type Unmarshaller struct {
	registry *Registry
}

// NewUnmarshaller creates an unmarshaller over the given registry
func NewUnmarshaller(registry *Registry) *Unmarshaller {
	return &Unmarshaller{registry: registry}
}

// Unmarshal builds the object for el and populates it, recursing into children
func (u *Unmarshaller) Unmarshal(el *etree.Element) (XMLObject, error) {
	if el == nil {
		return nil, errors.New("cannot unmarshal nil element")
	}

	name := ElementQName(el)
	obj := u.registry.BuilderFor(name).BuildObjectFromElement(el)
	if obj == nil {
		return nil, fmt.Errorf("builder for %s returned nil", name)
	}
	if !obj.ElementQName().Equal(name) {
		return nil, fmt.Errorf("builder for %s produced object named %s", name, obj.ElementQName())
	}

	if h, ok := obj.(domHolder); ok {
		h.setDOM(el)
	}

	if um, ok := obj.(Unmarshalable); ok {
		if err := um.UnmarshalElement(el, u); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", name, err)
		}
	}

	return obj, nil
}

// UnmarshalChildren unmarshals the child elements of el in document order
func (u *Unmarshaller) UnmarshalChildren(el *etree.Element) ([]XMLObject, error) {
	var children []XMLObject
	for _, child := range el.ChildElements() {
		obj, err := u.Unmarshal(child)
		if err != nil {
			return nil, err
		}
		children = append(children, obj)
	}
	return children, nil
}

// ParseBytes parses an XML document and unmarshals its root element
func (u *Unmarshaller) ParseBytes(data []byte) (XMLObject, error) {
	root, err := ParseRoot(data)
	if err != nil {
		return nil, err
	}
	return u.Unmarshal(root)
}

// ParseRoot parses an XML document and returns its root element
func ParseRoot(data []byte) (*etree.Element, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, errors.New("empty XML document")
	}
	return root, nil
}

// FindElement returns the first element at or below root with the given
// name, searching depth first in document order
func FindElement(root *etree.Element, name QName) *etree.Element {
	if root == nil {
		return nil
	}
	if ElementQName(root).Equal(name) {
		return root
	}
	for _, child := range root.ChildElements() {
		if found := FindElement(child, name); found != nil {
			return found
		}
	}
	return nil
}

// Digest returns a hex SHA-256 over the resolved names, attributes and
// text of an element tree. Namespace declarations are folded into the
// resolved names, so equal digests mean equal content regardless of the
// prefixes in use.
func Digest(el *etree.Element) string {
	h := sha256.New()
	writeDigest(h, el)
	return hex.EncodeToString(h.Sum(nil))
}

func writeDigest(h hash.Hash, el *etree.Element) {
	writeField(h, "<"+el.NamespaceURI())
	writeField(h, el.Tag)
	for _, a := range el.Attr {
		if a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns") {
			continue
		}
		writeField(h, "@"+a.NamespaceURI())
		writeField(h, a.Key)
		writeField(h, a.Value)
	}
	writeField(h, "#"+el.Text())
	for _, child := range el.ChildElements() {
		writeDigest(h, child)
	}
	writeField(h, ">")
}

func writeField(h hash.Hash, s string) {
	// length prefix keeps adjacent fields from running together
	fmt.Fprintf(h, "%d:%s", len(s), s)
}
