package analytics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSendShipsEventBatch(t *testing.T) {
	var batch []map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/track", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&batch))
		w.Write([]byte("1"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", zap.NewNop())
	err := client.send(EventPaymentSuccess, map[string]interface{}{
		"order_id": "order-1",
	})
	require.NoError(t, err)

	require.Len(t, batch, 1)
	assert.Equal(t, EventPaymentSuccess, batch[0]["event"])

	props, ok := batch[0]["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "test-token", props["token"])
	assert.Equal(t, "order-1", props["order_id"])
	assert.NotEmpty(t, props["$insert_id"])
	assert.NotNil(t, props["time"])
}

func TestSendReportsIngestionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", zap.NewNop())
	err := client.send(EventPaymentFail, nil)
	assert.Error(t, err)
}

func TestTrackWithoutTokenIsNoOp(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(server.URL, "", zap.NewNop())
	client.Track(EventPhotoUpload, nil)

	assert.False(t, called)
}
