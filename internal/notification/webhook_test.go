package notification

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendWebhook(t *testing.T) {
	t.Run("posts json to the callback", func(t *testing.T) {
		var gotBody map[string]interface{}
		var gotUA string

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &gotBody)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		err := SendWebhook(srv.URL, map[string]string{"event": "payment.sent"})
		require.NoError(t, err)
		assert.Equal(t, "Weoo-Webhook/1.0", gotUA)
		assert.Equal(t, "payment.sent", gotBody["event"])
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		err := SendWebhook(srv.URL, map[string]string{"event": "payment.sent"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("unreachable server is an error", func(t *testing.T) {
		err := SendWebhook("http://127.0.0.1:1/hook", nil)
		assert.Error(t, err)
	})
}
