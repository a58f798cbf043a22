package world

import "strings"

// keySeparator joins the two halves of a RouteKey in its text form.
const keySeparator = "::"

// KeyKind tells plaza entrances apart from zone scoped keys.
type KeyKind uint8

const (
	KindEntrance KeyKind = iota
	KindZone
)

// RouteKey identifies an edge or collectible slot in the world graph. Entrances
// use only Local; exits and blue coins are scoped by the zone group of the zone
// they belong to, which may be empty.
type RouteKey struct {
	Kind  KeyKind
	Group string
	Local string
}

// EntranceKey returns the routing key of a plaza entrance.
func EntranceKey(entranceID string) RouteKey {
	return RouteKey{Kind: KindEntrance, Local: entranceID}
}

// ExitKey returns the routing key of an exit of the given zone.
func ExitKey(zoneID, exitID string) RouteKey {
	return RouteKey{Kind: KindZone, Group: ZoneGroup(zoneID), Local: exitID}
}

// CoinKey returns the dedup key of a blue coin found in the given zone.
func CoinKey(zoneID, coinID string) RouteKey {
	return RouteKey{Kind: KindZone, Group: ZoneGroup(zoneID), Local: coinID}
}

// ZoneGroup strips the trailing instance number from a zone id, so every
// numbered variant of an area shares one namespace.
func ZoneGroup(zoneID string) string {
	return strings.TrimRightFunc(zoneID, func(r rune) bool {
		return r >= '0' && r <= '9'
	})
}

// IsZero reports whether k is the empty key.
func (k RouteKey) IsZero() bool {
	return k == RouteKey{}
}

// IsEntrance reports whether k names a plaza entrance.
func (k RouteKey) IsEntrance() bool {
	return k.Kind == KindEntrance
}

// String renders zone scoped keys with the separator even when the group is
// empty, so they never collide with an entrance of the same id.
func (k RouteKey) String() string {
	if k.IsEntrance() {
		return k.Local
	}
	return k.Group + keySeparator + k.Local
}

// ParseRouteKey parses the text form produced by String. Text without a
// separator is an entrance key. Otherwise the last separator splits group
// from local id, so groups may contain the separator but local ids may not.
func ParseRouteKey(s string) RouteKey {
	i := strings.LastIndex(s, keySeparator)
	if i < 0 {
		return EntranceKey(s)
	}
	return RouteKey{Kind: KindZone, Group: s[:i], Local: s[i+len(keySeparator):]}
}

func (k RouteKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *RouteKey) UnmarshalText(b []byte) error {
	*k = ParseRouteKey(string(b))
	return nil
}
