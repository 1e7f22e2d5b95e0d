package domain

import "time"

type DeviceOS string

const (
	DeviceAndroid DeviceOS = "android"
	DeviceIOS     DeviceOS = "ios"
	DeviceWeb     DeviceOS = "web"
)

type Device struct {
	Token      string
	OS         DeviceOS
	Version    string
	Connection time.Time
}

// UserNotificationInfo lists the endpoints a user can be reached through.
// Empty fields mean the corresponding channel is unreachable.
type UserNotificationInfo struct {
	PhoneNumber       string
	NotificationEmail string
	Devices           []Device
}

type User struct {
	ID               string
	EmailAddress     string
	CreatedAt        time.Time
	NotificationInfo UserNotificationInfo
}

// PushTokens returns the non-empty device tokens registered for the user.
func (i UserNotificationInfo) PushTokens() []string {
	tokens := make([]string, 0, len(i.Devices))
	for _, device := range i.Devices {
		if device.Token != "" {
			tokens = append(tokens, device.Token)
		}
	}
	return tokens
}
