package pkg

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ReadUserIP returns the client address of r: the first X-Forwarded-For hop,
// then X-Real-Ip, then the connection address. Ports are stripped.
func ReadUserIP(r *http.Request) (string, error) {
	candidate := ""
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		candidate = strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if candidate == "" {
		candidate = strings.TrimSpace(r.Header.Get("X-Real-Ip"))
	}
	if candidate == "" {
		candidate = r.RemoteAddr
	}

	if host, _, err := net.SplitHostPort(candidate); err == nil {
		candidate = host
	}
	ip := net.ParseIP(candidate)
	if ip == nil {
		return "", fmt.Errorf("ip addr %q is invalid", candidate)
	}
	return ip.String(), nil
}
