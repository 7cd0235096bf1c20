// Package validators holds input checks shared by citizen booking intake
// and admin registration.
package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid reports whether the address domain resolves via DNS
// (MX first, then A/AAAA). It does not verify the mailbox itself.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
