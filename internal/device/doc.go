// Package device implements the HTTP client for a single Tapo bulb.
//
// Client owns the session lifecycle (handshake, login, token), encrypts
// requests through internal/protocol, and retries retryable failures with
// exponential backoff. It implements lighting.Requester, so staged parameter
// updates are submitted through it:
//
//	client := device.NewClient("192.168.1.100", device.DefaultPort, username, password)
//
//	err := client.Light().TurnOn().SetBrightness(40).Send(ctx)
//
// Sessions are established lazily on the first request and re-established
// transparently when the device reports a session timeout.
//
// The package also holds the response models: DeviceInfo as returned by
// get_device_info, and the default-state types describing how the bulb
// behaves on power restoration.
package device
