package validators

import (
	"context"
	"net"
	"net/mail"
	"strings"
	"time"
)

// resolver is replaced in tests.
var resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
} = net.DefaultResolver

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsEmailValid checks the address syntax only.
func IsEmailValid(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email && strings.Contains(email[strings.LastIndex(email, "@")+1:], ".")
}

// IsEmailDomainValid is true when the domain has an MX record or, failing
// that, resolves to an address.
func IsEmailDomainValid(email string) bool {
	if !IsEmailValid(email) {
		return false
	}

	domain := email[strings.LastIndex(email, "@")+1:]

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if mx, err := resolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := resolver.LookupIPAddr(ctx, domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
