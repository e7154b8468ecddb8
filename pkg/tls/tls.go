// SPDX-License-Identifier: Apache-2.0

package tls

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"
)

// Config is the TLS configuration used to connect to the search store. The
// system certificate pool is used when no CA certificate is provided.
type Config struct {
	CACertFile         string
	ClientCertFile     string
	ClientKeyFile      string
	InsecureSkipVerify bool
}

var (
	errIncompleteClientCert = errors.New("client certificate and key files must be provided together")
	errInvalidCACert        = errors.New("no valid PEM certificates found in CA certificate file")
)

// IsEnabled returns true if any TLS setting other than the defaults is
// configured.
func (c *Config) IsEnabled() bool {
	return c != nil && (c.CACertFile != "" || c.ClientCertFile != "" || c.ClientKeyFile != "" || c.InsecureSkipVerify)
}

// NewConfig returns the tls.Config for the configuration on input, or nil if
// it's not enabled.
func NewConfig(cfg *Config) (*tls.Config, error) {
	if !cfg.IsEnabled() {
		return nil, nil
	}

	rootCAs, err := certPool(cfg.CACertFile)
	if err != nil {
		return nil, err
	}

	certificates, err := clientCertificates(cfg)
	if err != nil {
		return nil, err
	}

	return &tls.Config{
		MinVersion:         tls.VersionTLS12,
		RootCAs:            rootCAs,
		Certificates:       certificates,
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
	}, nil
}

// NewTransport returns a clone of the default HTTP transport using the TLS
// configuration on input. It returns nil if TLS is not enabled, so that the
// clients keep their default transport.
func NewTransport(cfg *Config) (http.RoundTripper, error) {
	tlsConfig, err := NewConfig(cfg)
	if err != nil || tlsConfig == nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig
	return transport, nil
}

func certPool(caCertFile string) (*x509.CertPool, error) {
	if caCertFile == "" {
		return x509.SystemCertPool()
	}

	pemBytes, err := os.ReadFile(caCertFile)
	if err != nil {
		return nil, fmt.Errorf("reading CA certificate file: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemBytes) {
		return nil, fmt.Errorf("%w: %s", errInvalidCACert, caCertFile)
	}
	return pool, nil
}

func clientCertificates(cfg *Config) ([]tls.Certificate, error) {
	switch {
	case cfg.ClientCertFile == "" && cfg.ClientKeyFile == "":
		return nil, nil
	case cfg.ClientCertFile == "" || cfg.ClientKeyFile == "":
		return nil, errIncompleteClientCert
	}

	cert, err := tls.LoadX509KeyPair(cfg.ClientCertFile, cfg.ClientKeyFile)
	if err != nil {
		return nil, fmt.Errorf("loading client certificate: %w", err)
	}
	return []tls.Certificate{cert}, nil
}
