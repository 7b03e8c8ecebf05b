package middlewares

import (
	"net"
	"net/http"
	"strings"
)

// ClientIPMiddleware rewrites RemoteAddr to the real client address. Forwarding
// headers are only honored when the peer is inside one of trustedProxies.
// Invalid CIDRs are skipped; config validation rejects them earlier.
func ClientIPMiddleware(trustedProxies []string) func(http.Handler) http.Handler {
	trusted := parseProxyNetworks(trustedProxies)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			peer, port := splitRemoteAddr(r.RemoteAddr)
			if peer == nil {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := peer
			if isTrusted(peer, trusted) {
				if forwarded := forwardedClientIP(r, trusted); forwarded != nil {
					clientIP = forwarded
				}
			}

			if port == "" {
				port = "0"
			}
			r.RemoteAddr = net.JoinHostPort(clientIP.String(), port)

			next.ServeHTTP(w, r)
		})
	}
}

func parseProxyNetworks(cidrs []string) []*net.IPNet {
	networks := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(strings.TrimSpace(cidr))
		if err != nil {
			continue
		}
		networks = append(networks, network)
	}
	return networks
}

func splitRemoteAddr(remoteAddr string) (net.IP, string) {
	host, port, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return net.ParseIP(remoteAddr), ""
	}
	return net.ParseIP(host), port
}

func isTrusted(ip net.IP, trusted []*net.IPNet) bool {
	for _, network := range trusted {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// forwardedClientIP walks X-Forwarded-For right to left and returns the first
// hop that is not a trusted proxy. Single-value headers are used as a fallback.
func forwardedClientIP(r *http.Request, trusted []*net.IPNet) net.IP {
	if xff := r.Header.Values("X-Forwarded-For"); len(xff) > 0 {
		hops := strings.Split(strings.Join(xff, ","), ",")
		var last net.IP
		for i := len(hops) - 1; i >= 0; i-- {
			ip := net.ParseIP(strings.TrimSpace(hops[i]))
			if ip == nil {
				break
			}
			last = ip
			if !isTrusted(ip, trusted) {
				return ip
			}
		}
		if last != nil {
			return last
		}
	}

	for _, header := range []string{"True-Client-IP", "X-Real-IP"} {
		if ip := net.ParseIP(strings.TrimSpace(r.Header.Get(header))); ip != nil {
			return ip
		}
	}

	return nil
}
