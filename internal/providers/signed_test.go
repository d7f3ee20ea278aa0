package providers

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"testing"

	"github.com/beevik/etree"
	dsig "github.com/russellhaering/goxmldsig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alechenninger/keyinfo/internal/keyinfo"
	"github.com/alechenninger/keyinfo/internal/xmlsig"
)

// signDocument returns an enveloped-signed document whose KeyInfo carries cert
func signDocument(t *testing.T, tlsCert tls.Certificate) []byte {
	t.Helper()

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(`<md:EntityDescriptor xmlns:md="urn:oasis:names:tc:SAML:2.0:metadata" ID="_signed" entityID="https://idp.example.com"/>`))

	signingContext := dsig.NewDefaultSigningContext(dsig.TLSCertKeyStore(tlsCert))
	signingContext.Canonicalizer = dsig.MakeC14N10ExclusiveCanonicalizerWithPrefixList("")

	signed, err := signingContext.SignEnveloped(doc.Root())
	require.NoError(t, err)
	doc.SetRoot(signed)

	data, err := doc.WriteToBytes()
	require.NoError(t, err)
	return data
}

func TestResolveSignedDocument(t *testing.T) {
	key := newRSAKey(t)
	cert := generateCert(t, "idp.example.com", key)
	data := signDocument(t, tls.Certificate{Certificate: [][]byte{cert.Raw}, PrivateKey: key})

	keyInfo, err := xmlsig.ParseKeyInfo(data)
	require.NoError(t, err)

	r := newResolver(t, NewKeyValue(), NewDEREncodedKeyValue(), NewInlineX509Data(), NewJWK())
	resolutions, err := r.Resolve(context.Background(), keyInfo, &keyinfo.Criteria{
		EntityID: "https://idp.example.com",
	})
	require.NoError(t, err)
	require.Len(t, resolutions, 1)
	assert.Equal(t, NameInlineX509Data, resolutions[0].Provider)

	cred := basic(t, resolutions[0].Credential)
	assert.True(t, cert.Equal(cred.EntityCertificate))
	assertSameKey(t, &key.PublicKey, cred.PublicKey())
	assert.Equal(t, "https://idp.example.com", cred.EntityID)

	// the resolved certificate verifies the document it came from
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))
	validationContext := dsig.NewDefaultValidationContext(&dsig.MemoryX509CertificateStore{
		Roots: []*x509.Certificate{cred.EntityCertificate},
	})
	_, err = validationContext.Validate(doc.Root())
	assert.NoError(t, err)
}
