package utils

import "strings"

// ClientIP resolves the caller address from proxy headers: the first
// X-Forwarded-For entry, else X-Real-IP, else the socket address.
func ClientIP(forwardedFor, realIP, remoteAddr string) string {
	if forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if realIP = strings.TrimSpace(realIP); realIP != "" {
		return realIP
	}
	return remoteAddr
}
