package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SwaggerConfig controls access to the generated API documentation.
// Disabled hides the docs entirely, RequireAuth gates them behind the
// admin token, and AllowedIPs narrows access to a set of addresses or
// CIDR ranges. The checks stack: IP first, then auth.
type SwaggerConfig struct {
	Enabled     bool
	RequireAuth bool
	AllowedIPs  []string
}

// SwaggerProtection guards the swagger routes per cfg. With Enabled false
// every docs request 404s so the endpoint is indistinguishable from an
// unknown route.
func SwaggerProtection(cfg SwaggerConfig, authMiddleware gin.HandlerFunc) gin.HandlerFunc {
	// Whitelist entries are parsed once, not per request.
	whitelist := parseIPWhitelist(cfg.AllowedIPs)

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "API documentation is not available",
			})
			return
		}

		if !whitelist.empty() && !whitelist.contains(clientIP(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "Access to API documentation is restricted",
			})
			return
		}

		if cfg.RequireAuth && authMiddleware != nil {
			authMiddleware(c)
			if c.IsAborted() {
				return
			}
		}

		c.Next()
	}
}

// ipWhitelist holds pre-parsed single addresses and CIDR ranges.
type ipWhitelist struct {
	ips  []net.IP
	nets []*net.IPNet
}

// parseIPWhitelist accepts plain addresses and CIDR notation, silently
// dropping entries that parse as neither.
func parseIPWhitelist(entries []string) ipWhitelist {
	var w ipWhitelist
	for _, entry := range entries {
		if strings.Contains(entry, "/") {
			if _, network, err := net.ParseCIDR(entry); err == nil {
				w.nets = append(w.nets, network)
			}
			continue
		}
		if ip := net.ParseIP(entry); ip != nil {
			w.ips = append(w.ips, ip)
		}
	}
	return w
}

func (w ipWhitelist) empty() bool {
	return len(w.ips) == 0 && len(w.nets) == 0
}

func (w ipWhitelist) contains(ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, allowed := range w.ips {
		if allowed.Equal(ip) {
			return true
		}
	}
	for _, network := range w.nets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// clientIP resolves the caller's address, preferring gin's trusted-proxy
// aware ClientIP over the raw remote address.
func clientIP(c *gin.Context) net.IP {
	if parsed := net.ParseIP(c.ClientIP()); parsed != nil {
		return parsed
	}

	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		host = c.Request.RemoteAddr
	}
	return net.ParseIP(host)
}
