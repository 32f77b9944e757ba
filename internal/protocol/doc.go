// Package protocol implements the Tapo secure passthrough wire protocol.
//
// Tapo devices expose a single HTTP endpoint (POST /app) that accepts JSON
// request envelopes. Apart from the initial handshake, every request body is
// encrypted: the inner request JSON is AES-128-CBC encrypted with a session
// key, base64 encoded, and wrapped in a securePassthrough envelope. The
// device answers with the same scheme in reverse.
//
// # Session Establishment
//
//  1. The client generates an RSA key pair and sends its public key in a
//     handshake request (GenerateKeyPair, KeyPair.PublicPEM).
//  2. The device responds with a 32-byte session secret encrypted with that
//     public key: the first 16 bytes are the AES key, the last 16 the IV
//     (KeyPair.DecryptSessionKey).
//  3. The client logs in with login_device over the encrypted channel and
//     receives a token that scopes subsequent requests.
//
// # Envelopes
//
// Request and Response model the outer JSON envelopes. Device results carry
// an error_code field; DeviceErrorFromCode maps the known codes to typed
// errors so callers can distinguish auth failures, expired sessions, and
// malformed requests.
//
// This package contains no transport logic; internal/device owns the HTTP
// client, retries, and session lifecycle.
package protocol
