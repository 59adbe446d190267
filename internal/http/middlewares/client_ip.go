package middlewares

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ProxyTrust decide cuándo creer en X-Forwarded-For. Sólo se lee si el par
// directo es un proxy de confianza, y se recorre de derecha a izquierda
// saltando los hops de confianza: el primero que no lo es es el cliente.
type ProxyTrust struct {
	prefixes []netip.Prefix
}

// NewProxyTrust acepta CIDRs o IPs sueltas; las entradas inválidas se
// ignoran (config.Validate ya las rechaza).
func NewProxyTrust(entries []string) *ProxyTrust {
	t := &ProxyTrust{}
	for _, e := range entries {
		if p, ok := ParseTrustedProxy(e); ok {
			t.prefixes = append(t.prefixes, p)
		}
	}
	return t
}

// ParseTrustedProxy interpreta "10.0.0.0/8" o "10.1.2.3".
func ParseTrustedProxy(s string) (netip.Prefix, bool) {
	s = strings.TrimSpace(s)
	if p, err := netip.ParsePrefix(s); err == nil {
		return p.Masked(), true
	}
	if a, err := netip.ParseAddr(s); err == nil {
		a = a.Unmap()
		return netip.PrefixFrom(a, a.BitLen()), true
	}
	return netip.Prefix{}, false
}

func (t *ProxyTrust) trusted(ip string) bool {
	if t == nil {
		return false
	}
	a, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return false
	}
	a = a.Unmap()
	for _, p := range t.prefixes {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// ClientIP devuelve la IP del cliente. Sin proxies de confianza es siempre
// la del par TCP.
func (t *ProxyTrust) ClientIP(r *http.Request) string {
	peer := remoteHost(r)
	if !t.trusted(peer) {
		return peer
	}
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !t.trusted(hop) {
			return hop
		}
	}
	return peer
}

func remoteHost(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// clientIP ignora X-Forwarded-For; lo usa el log de acceso.
func clientIP(r *http.Request) string { return remoteHost(r) }
