package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrKeyPairMismatch is returned when the configured public key does not
// belong to the configured private key.
var ErrKeyPairMismatch = errors.New("access public key does not match private key")

// KeyPair holds the RSA keys used to sign and verify access tokens.
type KeyPair struct {
	Private *rsa.PrivateKey
	Public  *rsa.PublicKey
}

// LoadKeyPair decodes base64-encoded PEM keys as they are stored in the
// environment and checks that both halves belong together.
func LoadKeyPair(privateB64, publicB64 string) (*KeyPair, error) {
	privPEM, err := base64.StdEncoding.DecodeString(privateB64)
	if err != nil {
		return nil, fmt.Errorf("decode access private key: %w", err)
	}
	pubPEM, err := base64.StdEncoding.DecodeString(publicB64)
	if err != nil {
		return nil, fmt.Errorf("decode access public key: %w", err)
	}

	priv, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		return nil, fmt.Errorf("parse access private key: %w", err)
	}
	pub, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		return nil, fmt.Errorf("parse access public key: %w", err)
	}

	if !priv.PublicKey.Equal(pub) {
		return nil, ErrKeyPairMismatch
	}

	return &KeyPair{Private: priv, Public: pub}, nil
}

// GenerateKeyPair creates a fresh RSA key pair. Used for development
// environments without configured keys and in tests.
func GenerateKeyPair(bits int) (*KeyPair, error) {
	priv, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("generate rsa key: %w", err)
	}
	return &KeyPair{Private: priv, Public: &priv.PublicKey}, nil
}

// Encode returns the key pair in the base64 PEM form accepted by LoadKeyPair.
func (k *KeyPair) Encode() (privateB64, publicB64 string, err error) {
	privDER := x509.MarshalPKCS1PrivateKey(k.Private)
	pubDER, err := x509.MarshalPKIXPublicKey(k.Public)
	if err != nil {
		return "", "", fmt.Errorf("marshal public key: %w", err)
	}

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: privDER})
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	return base64.StdEncoding.EncodeToString(privPEM), base64.StdEncoding.EncodeToString(pubPEM), nil
}
