package market

import "strings"

type AddressDomain string

const (
	AddressDomainUser     AddressDomain = "user"
	AddressDomainContract AddressDomain = "contract"
	AddressDomainSystem   AddressDomain = "system"
)

// Address identifies an account taking part in the market: buyers, sellers,
// the treasury and the admin. The literal form is "<domain>:<name>".
type Address string

// String returns the literal representation (like user:alice) of the address.
// Example payload: market.Address("user:alice").String()
func (a Address) String() string {
	return string(a)
}

// Domain quickly checks the prefix to tell user/contract/system addresses apart.
// Example payload: market.Address("contract:curvemarket").Domain()
func (a Address) Domain() AddressDomain {
	if strings.HasPrefix(a.String(), "system:") {
		return AddressDomainSystem
	}
	if strings.HasPrefix(a.String(), "contract:") {
		return AddressDomainContract
	}
	return AddressDomainUser
}

// IsValid is a light sanity check: non-empty, has a domain separator and a name.
// Example payload: market.Address("user:alice").IsValid()
func (a Address) IsValid() bool {
	s := a.String()
	i := strings.IndexByte(s, ':')
	return i > 0 && i < len(s)-1
}
