// Package xmlsig contains the XML Signature KeyInfo schema objects and the
// builders that construct them.
package xmlsig

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/alechenninger/keyinfo/internal/xmlobject"
)

const (
	// Namespace is the XML Signature 1.0 namespace
	Namespace = "http://www.w3.org/2000/09/xmldsig#"

	// Namespace11 is the XML Signature 1.1 namespace
	Namespace11 = "http://www.w3.org/2009/xmldsig11#"

	// Prefix is the conventional prefix for Namespace
	Prefix = "ds"

	// Prefix11 is the conventional prefix for Namespace11
	Prefix11 = "dsig11"
)

// Element names
var (
	KeyInfoName            = xmlobject.NewQName(Namespace, "KeyInfo", Prefix)
	KeyNameName            = xmlobject.NewQName(Namespace, "KeyName", Prefix)
	KeyValueName           = xmlobject.NewQName(Namespace, "KeyValue", Prefix)
	RSAKeyValueName        = xmlobject.NewQName(Namespace, "RSAKeyValue", Prefix)
	X509DataName           = xmlobject.NewQName(Namespace, "X509Data", Prefix)
	X509CertificateName    = xmlobject.NewQName(Namespace, "X509Certificate", Prefix)
	ECKeyValueName         = xmlobject.NewQName(Namespace11, "ECKeyValue", Prefix11)
	DEREncodedKeyValueName = xmlobject.NewQName(Namespace11, "DEREncodedKeyValue", Prefix11)
)

// KeyInfo is the ds:KeyInfo element
type KeyInfo struct {
	xmlobject.BaseObject

	ID       string
	Children []xmlobject.XMLObject
}

// NewKeyInfo creates an empty KeyInfo with the given name
func NewKeyInfo(name xmlobject.QName) *KeyInfo {
	return &KeyInfo{BaseObject: xmlobject.NewBaseObject(name)}
}

// OrderedChildren implements xmlobject.XMLObject
func (k *KeyInfo) OrderedChildren() []xmlobject.XMLObject {
	if k == nil {
		return nil
	}
	return k.Children
}

// UnmarshalElement implements xmlobject.Unmarshalable
func (k *KeyInfo) UnmarshalElement(el *etree.Element, u *xmlobject.Unmarshaller) error {
	k.ID = el.SelectAttrValue("Id", "")
	children, err := u.UnmarshalChildren(el)
	if err != nil {
		return err
	}
	k.Children = children
	return nil
}

// KeyNames returns the KeyName children
func (k *KeyInfo) KeyNames() []*KeyName {
	return childrenOf[*KeyName](k)
}

// KeyValues returns the KeyValue children
func (k *KeyInfo) KeyValues() []*KeyValue {
	return childrenOf[*KeyValue](k)
}

// X509Datas returns the X509Data children
func (k *KeyInfo) X509Datas() []*X509Data {
	return childrenOf[*X509Data](k)
}

// DEREncodedKeyValues returns the DEREncodedKeyValue children
func (k *KeyInfo) DEREncodedKeyValues() []*DEREncodedKeyValue {
	return childrenOf[*DEREncodedKeyValue](k)
}

func childrenOf[T xmlobject.XMLObject](obj xmlobject.XMLObject) []T {
	var out []T
	for _, child := range obj.OrderedChildren() {
		if typed, ok := child.(T); ok {
			out = append(out, typed)
		}
	}
	return out
}

// KeyName is the ds:KeyName element
type KeyName struct {
	xmlobject.BaseObject

	Value string
}

// NewKeyName creates an empty KeyName
func NewKeyName(name xmlobject.QName) *KeyName {
	return &KeyName{BaseObject: xmlobject.NewBaseObject(name)}
}

// UnmarshalElement implements xmlobject.Unmarshalable
func (k *KeyName) UnmarshalElement(el *etree.Element, _ *xmlobject.Unmarshaller) error {
	k.Value = strings.TrimSpace(el.Text())
	return nil
}

// KeyValue is the ds:KeyValue element. Value holds its single child,
// typed if a builder is registered for it.
type KeyValue struct {
	xmlobject.BaseObject

	Value xmlobject.XMLObject
}

// NewKeyValue creates an empty KeyValue
func NewKeyValue(name xmlobject.QName) *KeyValue {
	return &KeyValue{BaseObject: xmlobject.NewBaseObject(name)}
}

// OrderedChildren implements xmlobject.XMLObject
func (k *KeyValue) OrderedChildren() []xmlobject.XMLObject {
	if k.Value == nil {
		return nil
	}
	return []xmlobject.XMLObject{k.Value}
}

// UnmarshalElement implements xmlobject.Unmarshalable
func (k *KeyValue) UnmarshalElement(el *etree.Element, u *xmlobject.Unmarshaller) error {
	children, err := u.UnmarshalChildren(el)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		k.Value = children[0]
	}
	return nil
}

// RSAKeyValue is the ds:RSAKeyValue element.
// Modulus and Exponent hold the base64 text as it appeared in the document.
type RSAKeyValue struct {
	xmlobject.BaseObject

	Modulus  string
	Exponent string
}

// NewRSAKeyValue creates an empty RSAKeyValue
func NewRSAKeyValue(name xmlobject.QName) *RSAKeyValue {
	return &RSAKeyValue{BaseObject: xmlobject.NewBaseObject(name)}
}

// UnmarshalElement implements xmlobject.Unmarshalable
func (r *RSAKeyValue) UnmarshalElement(el *etree.Element, _ *xmlobject.Unmarshaller) error {
	r.Modulus = childText(el, Namespace, "Modulus")
	r.Exponent = childText(el, Namespace, "Exponent")
	return nil
}

// ECKeyValue is the dsig11:ECKeyValue element. Only named curves are
// represented; explicit ECParameters are left unset.
type ECKeyValue struct {
	xmlobject.BaseObject

	// NamedCurve is the URI attribute of the NamedCurve child (e.g. urn:oid:1.2.840.10045.3.1.7)
	NamedCurve string

	// PublicKey is the base64 encoded curve point
	PublicKey string
}

// NewECKeyValue creates an empty ECKeyValue
func NewECKeyValue(name xmlobject.QName) *ECKeyValue {
	return &ECKeyValue{BaseObject: xmlobject.NewBaseObject(name)}
}

// UnmarshalElement implements xmlobject.Unmarshalable
func (e *ECKeyValue) UnmarshalElement(el *etree.Element, _ *xmlobject.Unmarshaller) error {
	if curve := findChild(el, Namespace11, "NamedCurve"); curve != nil {
		e.NamedCurve = strings.TrimSpace(curve.SelectAttrValue("URI", ""))
	}
	e.PublicKey = childText(el, Namespace11, "PublicKey")
	return nil
}

// X509Data is the ds:X509Data element
type X509Data struct {
	xmlobject.BaseObject

	Children []xmlobject.XMLObject
}

// NewX509Data creates an empty X509Data
func NewX509Data(name xmlobject.QName) *X509Data {
	return &X509Data{BaseObject: xmlobject.NewBaseObject(name)}
}

// OrderedChildren implements xmlobject.XMLObject
func (x *X509Data) OrderedChildren() []xmlobject.XMLObject {
	return x.Children
}

// UnmarshalElement implements xmlobject.Unmarshalable
func (x *X509Data) UnmarshalElement(el *etree.Element, u *xmlobject.Unmarshaller) error {
	children, err := u.UnmarshalChildren(el)
	if err != nil {
		return err
	}
	x.Children = children
	return nil
}

// X509Certificates returns the X509Certificate children
func (x *X509Data) X509Certificates() []*X509Certificate {
	return childrenOf[*X509Certificate](x)
}

// X509Certificate is the ds:X509Certificate element holding base64 DER
type X509Certificate struct {
	xmlobject.BaseObject

	Value string
}

// NewX509Certificate creates an empty X509Certificate
func NewX509Certificate(name xmlobject.QName) *X509Certificate {
	return &X509Certificate{BaseObject: xmlobject.NewBaseObject(name)}
}

// UnmarshalElement implements xmlobject.Unmarshalable
func (x *X509Certificate) UnmarshalElement(el *etree.Element, _ *xmlobject.Unmarshaller) error {
	x.Value = strings.TrimSpace(el.Text())
	return nil
}

// DEREncodedKeyValue is the dsig11:DEREncodedKeyValue element holding a
// base64 SubjectPublicKeyInfo
type DEREncodedKeyValue struct {
	xmlobject.BaseObject

	ID    string
	Value string
}

// NewDEREncodedKeyValue creates an empty DEREncodedKeyValue
func NewDEREncodedKeyValue(name xmlobject.QName) *DEREncodedKeyValue {
	return &DEREncodedKeyValue{BaseObject: xmlobject.NewBaseObject(name)}
}

// UnmarshalElement implements xmlobject.Unmarshalable
func (d *DEREncodedKeyValue) UnmarshalElement(el *etree.Element, _ *xmlobject.Unmarshaller) error {
	d.ID = el.SelectAttrValue("Id", "")
	d.Value = strings.TrimSpace(el.Text())
	return nil
}

func findChild(el *etree.Element, space, local string) *etree.Element {
	want := xmlobject.NewQName(space, local, "")
	for _, child := range el.ChildElements() {
		if xmlobject.ElementQName(child).Equal(want) {
			return child
		}
	}
	return nil
}

func childText(el *etree.Element, space, local string) string {
	child := findChild(el, space, local)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}
