package domain

import (
	"encoding/json"
	"sort"
	"strings"
)

// IconKind discriminates the two icon variants.
type IconKind string

const (
	IconPredefined IconKind = "predefined"
	IconCustom     IconKind = "custom"
)

// DefaultIconName is used when a link is created without an icon.
const DefaultIconName = "link"

var predefinedIcons = map[string]struct{}{
	"link": {}, "globe": {}, "github": {}, "gitlab": {}, "twitter": {}, "x": {},
	"instagram": {}, "youtube": {}, "tiktok": {}, "linkedin": {}, "facebook": {},
	"twitch": {}, "discord": {}, "mastodon": {}, "mail": {}, "phone": {},
	"rss": {}, "spotify": {},
}

// Icon is either a bundled icon name or an externally hosted image URL.
// Construct it with PredefinedIcon or CustomIcon.
type Icon struct {
	Kind  IconKind `json:"type"`
	Value string   `json:"value"`
}

func PredefinedIcon(name string) Icon {
	return Icon{Kind: IconPredefined, Value: name}
}

func CustomIcon(url string) Icon {
	return Icon{Kind: IconCustom, Value: url}
}

// PredefinedIconNames lists the bundled icon names in sorted order.
func PredefinedIconNames() []string {
	names := make([]string, 0, len(predefinedIcons))
	for name := range predefinedIcons {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Normalize validates the icon. The zero Icon becomes the default
// predefined icon.
func (i Icon) Normalize() (Icon, error) {
	switch i.Kind {
	case "":
		if i.Value == "" {
			return PredefinedIcon(DefaultIconName), nil
		}
		return Icon{}, InvalidInput("icon", "missing type for value %q", i.Value)
	case IconPredefined:
		name := strings.ToLower(strings.TrimSpace(i.Value))
		if _, ok := predefinedIcons[name]; !ok {
			return Icon{}, InvalidInput("icon", "unknown icon %q", i.Value)
		}
		return PredefinedIcon(name), nil
	case IconCustom:
		if err := ValidateURL(i.Value); err != nil {
			return Icon{}, InvalidInput("icon", "custom icon url %q is not valid", i.Value)
		}
		return CustomIcon(i.Value), nil
	default:
		return Icon{}, InvalidInput("icon", "unknown icon type %q", i.Kind)
	}
}

// ParseIcon reads the CLI/form shorthand: a bare name is predefined, an
// http(s) URL is custom.
func ParseIcon(s string) (Icon, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PredefinedIcon(DefaultIconName), nil
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return CustomIcon(s).Normalize()
	}
	return PredefinedIcon(s).Normalize()
}

// UnmarshalJSON also accepts the shorthand string form.
func (i *Icon) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		icon, err := ParseIcon(s)
		if err != nil {
			return err
		}
		*i = icon
		return nil
	}
	type plain Icon
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*i = Icon(p)
	return nil
}
