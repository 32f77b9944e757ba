package protocol

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Method names understood by the device firmware
const (
	MethodHandshake         = "handshake"
	MethodSecurePassthrough = "securePassthrough"
	MethodLoginDevice       = "login_device"
	MethodGetDeviceInfo     = "get_device_info"
	MethodSetDeviceInfo     = "set_device_info"
)

// Request is the outer JSON envelope sent to POST /app.
// Params content depends on Method; TerminalUUID is only attached to
// passthrough requests.
type Request struct {
	Method          string `json:"method"`
	Params          any    `json:"params,omitempty"`
	RequestTimeMils int64  `json:"requestTimeMils"`
	TerminalUUID    string `json:"terminalUUID,omitempty"`
}

// NewRequest creates a request envelope stamped with the current time
func NewRequest(method string, params any) *Request {
	return &Request{
		Method:          method,
		Params:          params,
		RequestTimeMils: time.Now().UnixMilli(),
	}
}

// Response is the outer JSON envelope returned by the device
type Response struct {
	ErrorCode int             `json:"error_code"`
	Result    json.RawMessage `json:"result,omitempty"`
}

// Err maps the envelope's error code to a typed error (nil on success)
func (r *Response) Err() error {
	return DeviceErrorFromCode(r.ErrorCode)
}

// HandshakeParams carries the client's RSA public key in PEM form
type HandshakeParams struct {
	Key string `json:"key"`
}

// HandshakeResult carries the RSA-encrypted session secret, base64 encoded
type HandshakeResult struct {
	Key string `json:"key"`
}

// SecurePassthroughParams wraps an encrypted inner request
type SecurePassthroughParams struct {
	Request string `json:"request"`
}

// SecurePassthroughResult wraps an encrypted inner response
type SecurePassthroughResult struct {
	Response string `json:"response"`
}

// LoginParams carries the encoded account credentials.
// Username is the base64 of the SHA-1 hex digest of the account email;
// Password is plain base64. Both transforms are what the firmware expects,
// not a security measure - the envelope itself travels encrypted.
type LoginParams struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult carries the session token returned by login_device
type LoginResult struct {
	Token string `json:"token"`
}

// NewLoginParams encodes account credentials into the firmware's expected shape
func NewLoginParams(email, password string) LoginParams {
	digest := sha1.Sum([]byte(email))
	hashed := hex.EncodeToString(digest[:])

	return LoginParams{
		Username: base64.StdEncoding.EncodeToString([]byte(hashed)),
		Password: base64.StdEncoding.EncodeToString([]byte(password)),
	}
}
