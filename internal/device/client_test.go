package device

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"tapolight/internal/protocol"
)

const (
	testEmail    = "user@example.com"
	testPassword = "hunter2"
	testToken    = "A1B2C3D4E5F6"
)

// bulbEmulator mimics the firmware's /app endpoint: it answers the
// handshake with an RSA-encrypted session secret, decrypts passthrough
// envelopes with the negotiated AES cipher, and dispatches inner methods.
type bulbEmulator struct {
	mu     sync.Mutex
	cipher *protocol.SessionCipher
	secret []byte

	setCalls   []json.RawMessage
	loginCalls int

	// loginCode overrides the login_device error code when non-zero
	loginCode int
	// expireNext makes the next passthrough answer with a session timeout
	expireNext bool
}

type requestEnvelope struct {
	Method       string          `json:"method"`
	Params       json.RawMessage `json:"params"`
	TerminalUUID string          `json:"terminalUUID"`
}

func (b *bulbEmulator) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/app" {
			t.Errorf("unexpected path %q", r.URL.Path)
			http.NotFound(w, r)
			return
		}

		var envelope requestEnvelope
		if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
			t.Errorf("malformed request envelope: %v", err)
			return
		}

		switch envelope.Method {
		case protocol.MethodHandshake:
			b.handleHandshake(t, w, envelope.Params)
		case protocol.MethodSecurePassthrough:
			b.handlePassthrough(t, w, r, envelope.Params)
		default:
			t.Errorf("unexpected outer method %q", envelope.Method)
		}
	}
}

func (b *bulbEmulator) handleHandshake(t *testing.T, w http.ResponseWriter, params json.RawMessage) {
	var hp protocol.HandshakeParams
	if err := json.Unmarshal(params, &hp); err != nil {
		t.Fatalf("malformed handshake params: %v", err)
	}

	block, _ := pem.Decode([]byte(hp.Key))
	if block == nil {
		t.Fatal("handshake key is not PEM")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		t.Fatalf("failed to parse handshake key: %v", err)
	}

	b.mu.Lock()
	b.secret = make([]byte, 32)
	if _, err := rand.Read(b.secret); err != nil {
		b.mu.Unlock()
		t.Fatalf("failed to generate session secret: %v", err)
	}
	b.cipher, err = protocol.NewSessionCipher(b.secret[:16], b.secret[16:])
	b.mu.Unlock()
	if err != nil {
		t.Fatalf("failed to build emulator cipher: %v", err)
	}

	encrypted, err := rsa.EncryptPKCS1v15(rand.Reader, pub.(*rsa.PublicKey), b.secret)
	if err != nil {
		t.Fatalf("failed to encrypt session secret: %v", err)
	}

	w.Header().Set("Set-Cookie", "TP_SESSIONID=EMU0001;TIMEOUT=1440")
	writeOuter(t, w, 0, protocol.HandshakeResult{
		Key: base64.StdEncoding.EncodeToString(encrypted),
	})
}

func (b *bulbEmulator) handlePassthrough(t *testing.T, w http.ResponseWriter, r *http.Request, params json.RawMessage) {
	if !strings.Contains(r.Header.Get("Cookie"), "TP_SESSIONID=") {
		t.Error("passthrough request is missing the session cookie")
	}

	b.mu.Lock()
	cipher := b.cipher
	expire := b.expireNext
	b.expireNext = false
	b.mu.Unlock()

	if cipher == nil {
		t.Fatal("passthrough before handshake")
	}
	if expire {
		writeOuter(t, w, protocol.CodeSessionTimeout, nil)
		return
	}

	var sp protocol.SecurePassthroughParams
	if err := json.Unmarshal(params, &sp); err != nil {
		t.Fatalf("malformed passthrough params: %v", err)
	}

	innerBody, err := cipher.Decrypt(sp.Request)
	if err != nil {
		t.Fatalf("failed to decrypt inner request: %v", err)
	}

	var inner requestEnvelope
	if err := json.Unmarshal(innerBody, &inner); err != nil {
		t.Fatalf("malformed inner request: %v", err)
	}
	if inner.TerminalUUID == "" {
		t.Error("inner request is missing terminalUUID")
	}

	code, result := b.dispatch(t, r, &inner)

	innerResponse, err := json.Marshal(buildResponse(t, code, result))
	if err != nil {
		t.Fatalf("failed to encode inner response: %v", err)
	}

	writeOuter(t, w, 0, protocol.SecurePassthroughResult{
		Response: cipher.Encrypt(innerResponse),
	})
}

func (b *bulbEmulator) dispatch(t *testing.T, r *http.Request, inner *requestEnvelope) (int, any) {
	switch inner.Method {
	case protocol.MethodLoginDevice:
		b.mu.Lock()
		b.loginCalls++
		code := b.loginCode
		b.mu.Unlock()
		if code != 0 {
			return code, nil
		}

		var lp protocol.LoginParams
		if err := json.Unmarshal(inner.Params, &lp); err != nil {
			t.Fatalf("malformed login params: %v", err)
		}
		want := protocol.NewLoginParams(testEmail, testPassword)
		if lp != want {
			t.Errorf("login params = %+v, want %+v", lp, want)
		}
		return 0, protocol.LoginResult{Token: testToken}

	case protocol.MethodSetDeviceInfo:
		if got := r.URL.Query().Get("token"); got != testToken {
			t.Errorf("token = %q, want %q", got, testToken)
		}
		b.mu.Lock()
		b.setCalls = append(b.setCalls, append(json.RawMessage(nil), inner.Params...))
		b.mu.Unlock()
		return 0, struct{}{}

	case protocol.MethodGetDeviceInfo:
		if got := r.URL.Query().Get("token"); got != testToken {
			t.Errorf("token = %q, want %q", got, testToken)
		}
		return 0, json.RawMessage(sampleInfoJSON)

	default:
		t.Errorf("unexpected inner method %q", inner.Method)
		return protocol.CodeIncorrectRequest, nil
	}
}

func buildResponse(t *testing.T, code int, result any) map[string]any {
	response := map[string]any{"error_code": code}
	if result != nil {
		response["result"] = result
	}
	return response
}

func writeOuter(t *testing.T, w http.ResponseWriter, code int, result any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(buildResponse(t, code, result)); err != nil {
		t.Errorf("failed to write response: %v", err)
	}
}

func newTestClient(t *testing.T, emulator *bulbEmulator) *Client {
	server := httptest.NewServer(emulator.handler(t))
	t.Cleanup(server.Close)

	client := NewClientWithURL(server.URL, testEmail, testPassword)
	client.SetRetry(2, time.Millisecond)
	return client
}

func TestClientGetDeviceInfo(t *testing.T) {
	emulator := &bulbEmulator{}
	client := newTestClient(t, emulator)

	info, err := client.GetDeviceInfo(context.Background())
	if err != nil {
		t.Fatalf("GetDeviceInfo failed: %v", err)
	}
	if info.Model != "L530" {
		t.Errorf("Model = %q, want L530", info.Model)
	}
	if got := info.DecodedNickname(); got != "Living Room" {
		t.Errorf("DecodedNickname() = %q, want %q", got, "Living Room")
	}
	if emulator.loginCalls != 1 {
		t.Errorf("loginCalls = %d, want 1", emulator.loginCalls)
	}
}

func TestClientLightSend(t *testing.T) {
	emulator := &bulbEmulator{}
	client := newTestClient(t, emulator)

	err := client.Light().TurnOn().SetBrightness(60).Send(context.Background())
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if len(emulator.setCalls) != 1 {
		t.Fatalf("set_device_info calls = %d, want 1", len(emulator.setCalls))
	}

	var params map[string]any
	if err := json.Unmarshal(emulator.setCalls[0], &params); err != nil {
		t.Fatalf("malformed set_device_info params: %v", err)
	}
	if params["device_on"] != true {
		t.Errorf("device_on = %v, want true", params["device_on"])
	}
	if params["brightness"] != float64(60) {
		t.Errorf("brightness = %v, want 60", params["brightness"])
	}
	if _, ok := params["hue"]; ok {
		t.Error("hue should be omitted when unset")
	}
}

func TestClientSessionReused(t *testing.T) {
	emulator := &bulbEmulator{}
	client := newTestClient(t, emulator)

	ctx := context.Background()
	if err := client.Light().TurnOn().Send(ctx); err != nil {
		t.Fatalf("first Send failed: %v", err)
	}
	if err := client.Light().TurnOff().Send(ctx); err != nil {
		t.Fatalf("second Send failed: %v", err)
	}

	if emulator.loginCalls != 1 {
		t.Errorf("loginCalls = %d, want 1 (session should be reused)", emulator.loginCalls)
	}
}

func TestClientSessionTimeoutRecovery(t *testing.T) {
	emulator := &bulbEmulator{}
	client := newTestClient(t, emulator)

	ctx := context.Background()
	if err := client.Light().TurnOn().Send(ctx); err != nil {
		t.Fatalf("initial Send failed: %v", err)
	}

	emulator.mu.Lock()
	emulator.expireNext = true
	emulator.mu.Unlock()

	if err := client.Light().TurnOff().Send(ctx); err != nil {
		t.Fatalf("Send after session timeout failed: %v", err)
	}

	if emulator.loginCalls != 2 {
		t.Errorf("loginCalls = %d, want 2 (re-handshake after timeout)", emulator.loginCalls)
	}
	if len(emulator.setCalls) != 2 {
		t.Errorf("set_device_info calls = %d, want 2", len(emulator.setCalls))
	}
}

func TestClientInvalidCredentials(t *testing.T) {
	emulator := &bulbEmulator{loginCode: protocol.CodeInvalidCredentials}
	client := newTestClient(t, emulator)

	_, err := client.GetDeviceInfo(context.Background())
	if err == nil {
		t.Fatal("expected authentication error, got nil")
	}
	if !protocol.IsAuthError(err) {
		t.Errorf("IsAuthError(%v) = false, want true", err)
	}
}

func TestClientValidationShortCircuits(t *testing.T) {
	emulator := &bulbEmulator{}
	client := newTestClient(t, emulator)

	err := client.Light().SetBrightness(150).Send(context.Background())
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if emulator.loginCalls != 0 {
		t.Errorf("loginCalls = %d, want 0 (invalid state must not reach the device)", emulator.loginCalls)
	}
}

func TestClientUnreachableDevice(t *testing.T) {
	client := NewClientWithURL("http://127.0.0.1:1", testEmail, testPassword)
	client.SetRetry(0, time.Millisecond)
	client.SetTimeout(time.Second)

	_, err := client.GetDeviceInfo(context.Background())
	if err == nil {
		t.Fatal("expected network error, got nil")
	}
	if !protocol.IsNetworkError(err) {
		t.Errorf("IsNetworkError(%v) = false, want true", err)
	}
}

func TestLoggableRequestBodyRedactsCredentials(t *testing.T) {
	login := protocol.NewRequest(protocol.MethodLoginDevice,
		protocol.NewLoginParams(testEmail, testPassword))
	body, err := json.Marshal(login)
	if err != nil {
		t.Fatalf("failed to encode login request: %v", err)
	}

	logged := string(loggableRequestBody(protocol.MethodLoginDevice, body))
	creds := protocol.NewLoginParams(testEmail, testPassword)
	if strings.Contains(logged, creds.Password) || strings.Contains(logged, creds.Username) {
		t.Errorf("redacted body still carries credentials: %s", logged)
	}
	if !strings.Contains(logged, protocol.MethodLoginDevice) {
		t.Errorf("redacted body should keep the method name, got %s", logged)
	}
	if !strings.Contains(logged, "(redacted)") {
		t.Errorf("redacted body missing redaction marker: %s", logged)
	}

	set := []byte(`{"method":"set_device_info","params":{"brightness":50}}`)
	if got := loggableRequestBody(protocol.MethodSetDeviceInfo, set); string(got) != string(set) {
		t.Errorf("non-credential body altered: %s", got)
	}
}
