package manifest

import (
	"bytes"
	"encoding/json"
)

// Coordinates is a dependency entry: either a bare integer version, or a
// `{version, channel}` object carrying an explicit channel. The zero value
// is version 0 with no channel.
type Coordinates struct {
	Version uint32
	// Channel is the dependency's own channel, nil when unspecified (the
	// bare-integer form). Stored as a string; callers parse it with
	// pkg/channel.
	Channel *string
}

// coordinatesObj is the wire shape for the two-field object form.
type coordinatesObj struct {
	Version uint32  `json:"version"`
	Channel *string `json:"channel,omitempty"`
}

// UnmarshalJSON accepts either a bare JSON number or a {"version",
// "channel"} object, never silently dropping the channel field.
func (c *Coordinates) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9')) {
		var v uint32
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return err
		}
		c.Version = v
		c.Channel = nil
		return nil
	}
	var obj coordinatesObj
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return err
	}
	c.Version = obj.Version
	c.Channel = obj.Channel
	return nil
}

// MarshalJSON emits the bare-integer form when there is no channel, and
// the two-field object form otherwise.
func (c Coordinates) MarshalJSON() ([]byte, error) {
	if c.Channel == nil {
		return json.Marshal(c.Version)
	}
	return json.Marshal(coordinatesObj{Version: c.Version, Channel: c.Channel})
}

// ChannelOrDefault returns the coordinate's channel string, or "" (the
// root channel) when unset.
func (c Coordinates) ChannelOrDefault() string {
	if c.Channel == nil {
		return ""
	}
	return *c.Channel
}
