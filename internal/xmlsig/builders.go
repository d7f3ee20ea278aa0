package xmlsig

import (
	"fmt"
	"sync"

	"github.com/alechenninger/keyinfo/internal/xmlobject"
)

// Builders returns the builder for every schema object in this package
func Builders() map[xmlobject.QName]xmlobject.Builder {
	return map[xmlobject.QName]xmlobject.Builder{
		KeyInfoName:            xmlobject.BuilderFunc[*KeyInfo](NewKeyInfo),
		KeyNameName:            xmlobject.BuilderFunc[*KeyName](NewKeyName),
		KeyValueName:           xmlobject.BuilderFunc[*KeyValue](NewKeyValue),
		RSAKeyValueName:        xmlobject.BuilderFunc[*RSAKeyValue](NewRSAKeyValue),
		ECKeyValueName:         xmlobject.BuilderFunc[*ECKeyValue](NewECKeyValue),
		X509DataName:           xmlobject.BuilderFunc[*X509Data](NewX509Data),
		X509CertificateName:    xmlobject.BuilderFunc[*X509Certificate](NewX509Certificate),
		DEREncodedKeyValueName: xmlobject.BuilderFunc[*DEREncodedKeyValue](NewDEREncodedKeyValue),
	}
}

// Register adds the builders of this package to r
func Register(r *xmlobject.Registry) error {
	for name, builder := range Builders() {
		if err := r.Register(name, builder); err != nil {
			return fmt.Errorf("failed to register xmlsig builders: %w", err)
		}
	}
	return nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *xmlobject.Registry
)

// DefaultRegistry returns the process-wide registry holding the builders
// of this package. It is populated and frozen on first use.
func DefaultRegistry() *xmlobject.Registry {
	defaultOnce.Do(func() {
		r := xmlobject.NewRegistry()
		if err := Register(r); err != nil {
			// only possible if Builders returns duplicate names
			panic(err)
		}
		r.Freeze()
		defaultRegistry = r
	})
	return defaultRegistry
}

// NewUnmarshaller returns an unmarshaller over DefaultRegistry
func NewUnmarshaller() *xmlobject.Unmarshaller {
	return xmlobject.NewUnmarshaller(DefaultRegistry())
}

// ParseKeyInfo parses a document and unmarshals the first ds:KeyInfo in it
func ParseKeyInfo(data []byte) (*KeyInfo, error) {
	root, err := xmlobject.ParseRoot(data)
	if err != nil {
		return nil, err
	}

	el := xmlobject.FindElement(root, KeyInfoName)
	if el == nil {
		return nil, fmt.Errorf("no %s element found", KeyInfoName)
	}

	obj, err := NewUnmarshaller().Unmarshal(el)
	if err != nil {
		return nil, err
	}

	keyInfo, ok := obj.(*KeyInfo)
	if !ok {
		return nil, fmt.Errorf("unexpected object type %T for %s", obj, KeyInfoName)
	}
	return keyInfo, nil
}
