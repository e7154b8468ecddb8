// SPDX-License-Identifier: Apache-2.0

package tls

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_NewConfig(t *testing.T) {
	t.Parallel()

	certFile, keyFile := writeTestCertificate(t)
	invalidFile := filepath.Join(t.TempDir(), "invalid.pem")
	require.NoError(t, os.WriteFile(invalidFile, []byte("not a certificate"), 0o600))

	tests := []struct {
		name string
		cfg  *Config

		wantNil          bool
		wantCertificates int
		wantErr          error
		wantErrText      string
	}{
		{
			name:    "ok - nil config",
			cfg:     nil,
			wantNil: true,
		},
		{
			name:    "ok - not enabled",
			cfg:     &Config{},
			wantNil: true,
		},
		{
			name: "ok - insecure skip verify with system pool",
			cfg:  &Config{InsecureSkipVerify: true},
		},
		{
			name: "ok - CA certificate",
			cfg:  &Config{CACertFile: certFile},
		},
		{
			name: "ok - client certificate",
			cfg: &Config{
				CACertFile:     certFile,
				ClientCertFile: certFile,
				ClientKeyFile:  keyFile,
			},
			wantCertificates: 1,
		},
		{
			name:    "error - client certificate without key",
			cfg:     &Config{ClientCertFile: certFile},
			wantErr: errIncompleteClientCert,
		},
		{
			name:    "error - invalid CA certificate",
			cfg:     &Config{CACertFile: invalidFile},
			wantErr: errInvalidCACert,
		},
		{
			name:        "error - missing CA certificate file",
			cfg:         &Config{CACertFile: filepath.Join(t.TempDir(), "missing.pem")},
			wantErrText: "reading CA certificate file",
		},
		{
			name: "error - invalid client key",
			cfg: &Config{
				ClientCertFile: certFile,
				ClientKeyFile:  invalidFile,
			},
			wantErrText: "loading client certificate",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := NewConfig(tc.cfg)
			switch {
			case tc.wantErr != nil:
				require.ErrorIs(t, err, tc.wantErr)
				return
			case tc.wantErrText != "":
				require.ErrorContains(t, err, tc.wantErrText)
				return
			}
			require.NoError(t, err)

			if tc.wantNil {
				require.Nil(t, cfg)
				return
			}
			require.NotNil(t, cfg)
			require.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
			require.NotNil(t, cfg.RootCAs)
			require.Len(t, cfg.Certificates, tc.wantCertificates)
			require.Equal(t, tc.cfg.InsecureSkipVerify, cfg.InsecureSkipVerify)
		})
	}
}

func Test_NewTransport(t *testing.T) {
	t.Parallel()

	transport, err := NewTransport(&Config{})
	require.NoError(t, err)
	require.Nil(t, transport)

	certFile, _ := writeTestCertificate(t)
	transport, err = NewTransport(&Config{CACertFile: certFile})
	require.NoError(t, err)
	httpTransport, ok := transport.(*http.Transport)
	require.True(t, ok)
	require.NotNil(t, httpTransport.TLSClientConfig)
	require.NotSame(t, http.DefaultTransport, transport)
}

func writeTestCertificate(t *testing.T) (certFile, keyFile string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "localhost"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		DNSNames:              []string{"localhost"},
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)

	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	dir := t.TempDir()
	certFile = filepath.Join(dir, "cert.pem")
	keyFile = filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))
	require.NoError(t, os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0o600))
	return certFile, keyFile
}
