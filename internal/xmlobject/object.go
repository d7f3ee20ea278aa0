package xmlobject

import (
	"github.com/beevik/etree"
)

// QName is the qualified name of an XML element
type QName struct {
	// Space is the namespace URI (empty for no namespace)
	Space string

	// Local is the local part of the name
	Local string

	// Prefix is the namespace prefix used when the element is written.
	// It does not take part in equality.
	Prefix string
}

// NewQName creates a qualified name
func NewQName(namespaceURI, localName, prefix string) QName {
	return QName{
		Space:  namespaceURI,
		Local:  localName,
		Prefix: prefix,
	}
}

// ElementQName returns the qualified name of an element, resolving its
// prefix to a namespace URI through the element's in-scope declarations.
func ElementQName(el *etree.Element) QName {
	return QName{
		Space:  el.NamespaceURI(),
		Local:  el.Tag,
		Prefix: el.Space,
	}
}

// Equal reports whether two names have the same namespace URI and local name
func (q QName) Equal(other QName) bool {
	return q.Space == other.Space && q.Local == other.Local
}

// IsZero reports whether the name is unset
func (q QName) IsZero() bool {
	return q.Local == ""
}

// key strips the prefix so names can be used as map keys
func (q QName) key() QName {
	return QName{Space: q.Space, Local: q.Local}
}

// String returns the name in {namespace}local form
func (q QName) String() string {
	if q.Space == "" {
		return q.Local
	}
	return "{" + q.Space + "}" + q.Local
}

// XMLObject is a typed, in-memory representation of one XML element
type XMLObject interface {
	// ElementQName returns the qualified name of the element this object represents
	ElementQName() QName

	// OrderedChildren returns the child objects in document order
	OrderedChildren() []XMLObject

	// DOM returns the element this object was unmarshalled from, or nil
	// if the object was built synthetically
	DOM() *etree.Element
}

// Unmarshalable is implemented by objects that populate their content
// from the element they were built from
type Unmarshalable interface {
	UnmarshalElement(el *etree.Element, u *Unmarshaller) error
}

// BaseObject carries the state shared by all XML objects.
// Schema types embed it and are constructed through a Builder.
type BaseObject struct {
	name QName
	dom  *etree.Element
}

// NewBaseObject creates the embedded base for an object with the given name
func NewBaseObject(name QName) BaseObject {
	return BaseObject{name: name}
}

// ElementQName implements XMLObject
func (o *BaseObject) ElementQName() QName {
	return o.name
}

// OrderedChildren implements XMLObject for leaf objects
func (o *BaseObject) OrderedChildren() []XMLObject {
	return nil
}

// DOM implements XMLObject
func (o *BaseObject) DOM() *etree.Element {
	return o.dom
}

func (o *BaseObject) setDOM(el *etree.Element) {
	o.dom = el
}

// domHolder is satisfied by every type embedding BaseObject
type domHolder interface {
	setDOM(el *etree.Element)
}
