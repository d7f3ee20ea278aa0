package providers

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alechenninger/keyinfo/internal/credential"
	"github.com/alechenninger/keyinfo/internal/keyinfo"
	"github.com/alechenninger/keyinfo/internal/xmlsig"
)

const keyInfoOpen = `<ds:KeyInfo xmlns:ds="http://www.w3.org/2000/09/xmldsig#" xmlns:dsig11="http://www.w3.org/2009/xmldsig11#" xmlns:jwk="urn:keyinfo:jwk">`

func parseKeyInfo(t *testing.T, children ...string) *xmlsig.KeyInfo {
	t.Helper()
	keyInfo, err := xmlsig.ParseKeyInfo([]byte(keyInfoOpen + strings.Join(children, "\n") + `</ds:KeyInfo>`))
	require.NoError(t, err)
	return keyInfo
}

func newResolver(t *testing.T, providers ...keyinfo.Provider) *keyinfo.ChainResolver {
	t.Helper()
	r, err := keyinfo.NewChainResolver(keyinfo.ChainResolverConfig{Providers: providers})
	require.NoError(t, err)
	return r
}

func b64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func rsaKeyValueXML(pub *rsa.PublicKey) string {
	return fmt.Sprintf(`<ds:KeyValue><ds:RSAKeyValue><ds:Modulus>%s</ds:Modulus><ds:Exponent>%s</ds:Exponent></ds:RSAKeyValue></ds:KeyValue>`,
		b64(pub.N.Bytes()), b64(big.NewInt(int64(pub.E)).Bytes()))
}

func ecKeyValueXML(t *testing.T, curveURI string, pub *ecdsa.PublicKey) string {
	t.Helper()
	ecdhPub, err := pub.ECDH()
	require.NoError(t, err)
	return fmt.Sprintf(`<ds:KeyValue><dsig11:ECKeyValue><dsig11:NamedCurve URI="%s"/><dsig11:PublicKey>%s</dsig11:PublicKey></dsig11:ECKeyValue></ds:KeyValue>`,
		curveURI, b64(ecdhPub.Bytes()))
}

func x509DataXML(certs ...*x509.Certificate) string {
	var b strings.Builder
	b.WriteString("<ds:X509Data>")
	for _, c := range certs {
		b.WriteString("<ds:X509Certificate>")
		b.WriteString(wrap(b64(c.Raw), 64))
		b.WriteString("</ds:X509Certificate>")
	}
	b.WriteString("</ds:X509Data>")
	return b.String()
}

func wrap(s string, width int) string {
	var lines []string
	for len(s) > width {
		lines = append(lines, s[:width])
		s = s[width:]
	}
	return strings.Join(append(lines, s), "\n")
}

func generateCert(t *testing.T, cn string, signer crypto.Signer) *x509.Certificate {
	t.Helper()
	template := &x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject:      pkix.Name{CommonName: cn},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, signer.Public(), signer)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	return cert
}

func newRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func newECKey(t *testing.T, curve elliptic.Curve) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(curve, rand.Reader)
	require.NoError(t, err)
	return key
}

func assertSameKey(t *testing.T, expected crypto.PublicKey, actual any) {
	t.Helper()
	assert.True(t, sameKey(expected, actual), "expected %T key to equal %T key", expected, actual)
}

func basic(t *testing.T, cred credential.Credential) *credential.Basic {
	t.Helper()
	b, ok := cred.(*credential.Basic)
	require.True(t, ok, "credential is %T", cred)
	return b
}
