package domain

import (
	"regexp"
	"strings"
)

// Network is a Ghanaian mobile operator. IDs match the bundle provider's network identifiers.
type Network struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Prefixes []string `json:"prefixes"`
}

const (
	NetworkMTN        = 1
	NetworkTelecel    = 2
	NetworkAirtelTigo = 3
)

// Networks lists the supported operators with their number prefixes.
var Networks = []Network{
	{ID: NetworkMTN, Name: "MTN", Prefixes: []string{"024", "054", "055", "059"}},
	{ID: NetworkTelecel, Name: "Telecel", Prefixes: []string{"020", "050"}},
	{ID: NetworkAirtelTigo, Name: "AirtelTigo", Prefixes: []string{"027", "057", "026", "056"}},
}

var networkByPrefix = func() map[string]Network {
	m := make(map[string]Network)
	for _, n := range Networks {
		for _, p := range n.Prefixes {
			m[p] = n
		}
	}
	return m
}()

var validMsisdn = regexp.MustCompile(`^0(20|50|24|54|55|59|27|57|26|56)\d{7}$`)

// NormalizePhoneNumber converts the common ways of writing a Ghanaian number
// (+233..., 233..., 24..., 024 ...) into the local 10-digit form.
// It does not validate; use IsValidPhoneNumber for that.
func NormalizePhoneNumber(phone string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '-' {
			return -1
		}
		return r
	}, phone)
	cleaned = strings.TrimPrefix(cleaned, "+")
	if strings.HasPrefix(cleaned, "233") {
		return "0" + cleaned[3:]
	}
	if len(cleaned) == 9 && (cleaned[0] == '2' || cleaned[0] == '5') {
		return "0" + cleaned
	}
	return cleaned
}

// IsValidPhoneNumber reports whether phone normalises to a number on a supported network.
func IsValidPhoneNumber(phone string) bool {
	return validMsisdn.MatchString(NormalizePhoneNumber(phone))
}

// DetectNetwork returns the operator for phone based on its prefix.
func DetectNetwork(phone string) (Network, bool) {
	normalized := NormalizePhoneNumber(phone)
	if len(normalized) < 3 {
		return Network{}, false
	}
	n, ok := networkByPrefix[normalized[:3]]
	return n, ok
}

// NetworkByID looks up a supported operator.
func NetworkByID(id int) (Network, bool) {
	for _, n := range Networks {
		if n.ID == id {
			return n, true
		}
	}
	return Network{}, false
}
