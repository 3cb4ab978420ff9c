package server

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/antiflood/app/events"
	"github.com/umputun/antiflood/app/server/mocks"
	"github.com/umputun/antiflood/lib/floodcheck"
)

const groupEvent = `{"time":1714564800,"self_id":999,"post_type":"message","message_type":"group","message_id":7,
	"group_id":100,"user_id":42,"raw_message":"hi","message":[{"type":"text","data":{"text":"hi"}}]}`

func okHandler() *mocks.EventHandlerMock {
	return &mocks.EventHandlerMock{HandleFunc: func(context.Context, events.Event) (floodcheck.Response, error) {
		return floodcheck.Response{}, nil
	}}
}

func post(t *testing.T, url, body string, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBufferString(body))
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestServer_Event(t *testing.T) {
	h := okHandler()
	ts := httptest.NewServer(NewServer(Params{Handler: h}).routes())
	defer ts.Close()

	resp := post(t, ts.URL+"/onebot", groupEvent, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.Len(t, h.HandleCalls(), 1)
	ev := h.HandleCalls()[0].Ev
	assert.Equal(t, events.ID("100"), ev.GroupID)
	assert.Equal(t, events.ID("42"), ev.UserID)
	assert.Equal(t, events.MessageTypeGroup, ev.MessageType)
	assert.Equal(t, events.Message{events.TextSegment{Text: "hi"}}, ev.Message)
}

func TestServer_EventHandlerError(t *testing.T) {
	h := &mocks.EventHandlerMock{HandleFunc: func(context.Context, events.Event) (floodcheck.Response, error) {
		return floodcheck.Response{Spam: true, Kind: floodcheck.KindRepeat}, errors.New("moderation failed")
	}}
	ts := httptest.NewServer(NewServer(Params{Handler: h}).routes())
	defer ts.Close()

	resp := post(t, ts.URL+"/onebot", groupEvent, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Len(t, h.HandleCalls(), 1)
}

func TestServer_BadEvent(t *testing.T) {
	h := okHandler()
	ts := httptest.NewServer(NewServer(Params{Handler: h}).routes())
	defer ts.Close()

	resp := post(t, ts.URL+"/onebot", `{"post_type":`, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "can't decode event")
	assert.Empty(t, h.HandleCalls())
}

func TestServer_Signature(t *testing.T) {
	validSig := "sha1=" + hex.EncodeToString(sign("secret", []byte(groupEvent)))

	tbl := []struct {
		name    string
		headers map[string]string
		code    int
		calls   int
	}{
		{"valid", map[string]string{"X-Signature": validSig}, http.StatusNoContent, 1},
		{"missing", nil, http.StatusForbidden, 0},
		{"no prefix", map[string]string{"X-Signature": validSig[5:]}, http.StatusForbidden, 0},
		{"not hex", map[string]string{"X-Signature": "sha1=zz"}, http.StatusForbidden, 0},
		{"other secret", map[string]string{"X-Signature": "sha1=" + hex.EncodeToString(sign("other", []byte(groupEvent)))},
			http.StatusForbidden, 0},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			h := okHandler()
			ts := httptest.NewServer(NewServer(Params{Handler: h, Secret: "secret"}).routes())
			defer ts.Close()

			resp := post(t, ts.URL+"/onebot", groupEvent, tt.headers)
			defer resp.Body.Close()
			assert.Equal(t, tt.code, resp.StatusCode)
			assert.Len(t, h.HandleCalls(), tt.calls)
		})
	}
}

func TestServer_Sign(t *testing.T) {
	// HMAC-SHA1("key", "The quick brown fox jumps over the lazy dog")
	assert.Equal(t, "de7c9b85b8b78aa6bc8a7a36f70a90701c9db4d9",
		hex.EncodeToString(sign("key", []byte("The quick brown fox jumps over the lazy dog"))))
}

func TestServer_Ping(t *testing.T) {
	ts := httptest.NewServer(NewServer(Params{Handler: okHandler(), Version: "v1"}).routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))
	assert.Equal(t, "antiflood", resp.Header.Get("App-Name"))
}

func TestServer_Run(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := okHandler()
	srv := NewServer(Params{ListenAddr: "127.0.0.1:18791", Handler: h})
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://127.0.0.1:18791/ping")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, time.Second, 10*time.Millisecond)

	resp := post(t, fmt.Sprintf("http://%s/onebot", srv.ListenAddr), groupEvent, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("server not stopped")
	}
}
