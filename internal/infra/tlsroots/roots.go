package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNoCertsFound is returned when no certificates are found in a PEM file.
	ErrNoCertsFound = errors.New("tlsroots: no certificates found in PEM file")

	// ErrKeyPairIncomplete is returned when only one of a certificate and
	// key file is given.
	ErrKeyPairIncomplete = errors.New("tlsroots: certificate and key must be given together")
)

// Pool is a set of trusted CA certificates.
type Pool struct {
	certPool *x509.CertPool
}

// NewPool creates a pool seeded with the system roots. If system roots
// cannot be loaded, the pool starts empty.
func NewPool() *Pool {
	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	return &Pool{certPool: pool}
}

// NewEmptyPool creates a pool without system roots.
func NewEmptyPool() *Pool {
	return &Pool{certPool: x509.NewCertPool()}
}

// LoadPool creates a pool holding only the certificates in path.
func LoadPool(path string) (*Pool, error) {
	p := NewEmptyPool()
	if err := p.AddCertFile(path); err != nil {
		return nil, err
	}
	return p, nil
}

// AddCertFile adds every certificate of a PEM file.
func (p *Pool) AddCertFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("tlsroots: read cert file %s: %w", path, err)
	}

	if err := p.AddCertPEM(data); err != nil {
		return fmt.Errorf("%w (%s)", err, path)
	}
	return nil
}

// AddCertPEM adds certificates from PEM-encoded data. Blocks other than
// CERTIFICATE are skipped.
func (p *Pool) AddCertPEM(pemData []byte) error {
	var added int

	for len(pemData) > 0 {
		var block *pem.Block
		block, pemData = pem.Decode(pemData)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return fmt.Errorf("tlsroots: parse certificate: %w", err)
		}
		p.certPool.AddCert(cert)
		added++
	}

	if added == 0 {
		return ErrNoCertsFound
	}
	return nil
}

// Pool returns the underlying x509.CertPool.
func (p *Pool) Pool() *x509.CertPool {
	return p.certPool
}

// ClientOptions configures a client TLS connection.
type ClientOptions struct {
	// CAFile holds the CAs that sign the server certificate. Empty means
	// the system roots.
	CAFile string

	// CertFile and KeyFile hold a client certificate for servers that
	// require one.
	CertFile string
	KeyFile  string

	// ServerName overrides the name checked against the server
	// certificate. Empty means the host part of the dialed address.
	ServerName string
}

// ClientConfig builds a client TLS config from opts.
func ClientConfig(opts ClientOptions) (*tls.Config, error) {
	roots := NewPool()
	if opts.CAFile != "" {
		p, err := LoadPool(opts.CAFile)
		if err != nil {
			return nil, err
		}
		roots = p
	}

	cfg := &tls.Config{
		RootCAs:    roots.Pool(),
		ServerName: opts.ServerName,
		MinVersion: tls.VersionTLS12,
	}

	if (opts.CertFile == "") != (opts.KeyFile == "") {
		return nil, ErrKeyPairIncomplete
	}
	if opts.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(opts.CertFile, opts.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("tlsroots: load key pair: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	return cfg, nil
}
