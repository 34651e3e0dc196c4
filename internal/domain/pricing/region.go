package pricing

import "strings"

// innerCityPatterns lists lowercase name variants of the metros that qualify
// for the reduced flat shipping rate. Matching is substring-based so both
// accented and unaccented spellings in free-form addresses are caught.
var innerCityPatterns = []string{
	"hà nội",
	"ha noi",
	"hanoi",
	"hồ chí minh",
	"ho chi minh",
	"hcm",
	"sài gòn",
	"sai gon",
	"saigon",
	"đà nẵng",
	"da nang",
	"danang",
}

// InnerCity reports whether the delivery address falls inside one of the
// target metros. An empty address is treated as outer region.
func InnerCity(address string) bool {
	if address == "" {
		return false
	}
	addr := strings.ToLower(address)
	for _, p := range innerCityPatterns {
		if strings.Contains(addr, p) {
			return true
		}
	}
	return false
}
