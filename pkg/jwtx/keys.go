package jwtx

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

// Algorithm selects the signing scheme for the codec.
type Algorithm string

const (
	AlgHMAC Algorithm = "HMAC"
	AlgRSA  Algorithm = "RSA"
)

// Key holds the signing and verification material for one algorithm.
// Build one with NewHMACKey or LoadRSAKeys at startup and hand it to
// NewCodec; it is immutable afterwards.
type Key struct {
	alg     Algorithm
	secret  []byte
	private *rsa.PrivateKey
	public  *rsa.PublicKey
}

// Algorithm returns the signing scheme this key is for.
func (k *Key) Algorithm() Algorithm { return k.alg }

// NewHMACKey builds a Key for HS256 signing from a shared secret.
// An empty secret is a configuration error.
func NewHMACKey(secret string) (*Key, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrSecretMissing
	}
	return &Key{alg: AlgHMAC, secret: []byte(secret)}, nil
}

// LoadRSAKeys reads a PKCS8 private key and an X.509 SubjectPublicKeyInfo
// public key from PEM files and builds a Key for RS256 signing.
func LoadRSAKeys(privatePath, publicPath string) (*Key, error) {
	privDER, err := readPEMBody(privatePath, "PRIVATE KEY")
	if err != nil {
		return nil, err
	}
	parsed, err := x509.ParsePKCS8PrivateKey(privDER)
	if err != nil {
		return nil, fmt.Errorf("%w: parse private key %s: %v", ErrKeyLoad, privatePath, err)
	}
	private, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an RSA private key", ErrKeyLoad, privatePath)
	}

	pubDER, err := readPEMBody(publicPath, "PUBLIC KEY")
	if err != nil {
		return nil, err
	}
	parsedPub, err := x509.ParsePKIXPublicKey(pubDER)
	if err != nil {
		return nil, fmt.Errorf("%w: parse public key %s: %v", ErrKeyLoad, publicPath, err)
	}
	public, ok := parsedPub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an RSA public key", ErrKeyLoad, publicPath)
	}

	return &Key{alg: AlgRSA, private: private, public: public}, nil
}

// readPEMBody reads a PEM file, strips the BEGIN/END lines for the given
// block type along with all whitespace, and base64-decodes the remainder.
func readPEMBody(path, blockType string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrKeyLoad, path, err)
	}

	body := string(raw)
	body = strings.ReplaceAll(body, "-----BEGIN "+blockType+"-----", "")
	body = strings.ReplaceAll(body, "-----END "+blockType+"-----", "")
	body = strings.Join(strings.Fields(body), "")

	der, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrKeyLoad, path, err)
	}
	return der, nil
}
