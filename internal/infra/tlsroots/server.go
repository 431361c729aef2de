package tlsroots

import "crypto/tls"

// ServerConfig returns a TLS config that always serves the watcher's
// current certificate. When clientCAs is non-nil, clients must present a
// certificate it verifies.
func ServerConfig(w *Watcher, clientCAs *Pool) *tls.Config {
	cfg := &tls.Config{
		GetCertificate: w.GetCertificate,
		MinVersion:     tls.VersionTLS12,
	}
	if clientCAs != nil {
		cfg.ClientCAs = clientCAs.Pool()
		cfg.ClientAuth = tls.RequireAndVerifyClientCert
	}
	return cfg
}
