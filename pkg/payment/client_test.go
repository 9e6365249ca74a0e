package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"homefix/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient(baseURL string) *Client {
	return NewClient(&config.PaymentConfig{
		BaseURL:       baseURL,
		APIKey:        "test-key",
		WebhookSecret: "whsec_test",
		Timeout:       5 * time.Second,
	}, zap.NewNop())
}

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	c := testClient("http://localhost")
	payload := []byte(`{"type":"checkout.session.completed"}`)

	assert.True(t, c.VerifySignature(payload, sign("whsec_test", payload)))
	assert.False(t, c.VerifySignature(payload, sign("whsec_wrong", payload)))
	assert.False(t, c.VerifySignature(payload, "deadbeef"))
	assert.False(t, c.VerifySignature([]byte(`{"tampered":true}`), sign("whsec_test", payload)))
}

func TestParseEvent(t *testing.T) {
	c := testClient("http://localhost")

	payload := []byte(`{
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"amount_total": 12000,
				"currency": "eur",
				"metadata": {
					"user_id": "42",
					"contractor_data": "{\"name\":\"Obrt Kovač\",\"phone\":\"+385 98 111 2222\",\"specialization\":\"PLUMBER\"}"
				}
			}
		}
	}`)

	t.Run("valid signature", func(t *testing.T) {
		ev, err := c.ParseEvent(payload, sign("whsec_test", payload))
		require.NoError(t, err)
		assert.Equal(t, EventCheckoutCompleted, ev.Type)
		assert.Equal(t, int64(12000), ev.Data.Object.AmountTotal)
		assert.Equal(t, "eur", ev.Data.Object.Currency)
		assert.Equal(t, "42", ev.Data.Object.Metadata.UserID)
		assert.Contains(t, ev.Data.Object.Metadata.ContractorData, "PLUMBER")
	})

	t.Run("bad signature", func(t *testing.T) {
		_, err := c.ParseEvent(payload, "bad")
		assert.Error(t, err)
	})

	t.Run("malformed body", func(t *testing.T) {
		broken := []byte(`{"type":`)
		_, err := c.ParseEvent(broken, sign("whsec_test", broken))
		assert.Error(t, err)
	})
}

func TestGetMembershipPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/prices", r.URL.Path)
		require.Equal(t, "true", r.URL.Query().Get("active"))
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"id": "price_1", "amount": 120.0, "currency": "eur", "product_id": "prod_1"},
			},
		})
	}))
	defer srv.Close()

	price, err := testClient(srv.URL).GetMembershipPrice()
	require.NoError(t, err)
	assert.Equal(t, "price_1", price.ID)
	assert.Equal(t, 120.0, price.Amount)
	assert.Equal(t, "prod_1", price.ProductID)
}

func TestGetMembershipPrice_NoActivePrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []map[string]interface{}{}})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GetMembershipPrice()
	assert.Error(t, err)
}

func TestUpdateMembershipPrice(t *testing.T) {
	var deactivated string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v1/prices":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": []map[string]interface{}{
					{"id": "price_old", "amount": 120.0, "currency": "eur", "product_id": "prod_1"},
				},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/v1/prices":
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, 150.0, body["amount"])
			require.Equal(t, "prod_1", body["product_id"])
			json.NewEncoder(w).Encode(map[string]interface{}{
				"id": "price_new", "amount": 150.0, "currency": "eur", "product_id": "prod_1",
			})
		case r.Method == http.MethodPost && r.URL.Path == "/v1/prices/price_old/deactivate":
			deactivated = "price_old"
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	price, err := testClient(srv.URL).UpdateMembershipPrice(150.0)
	require.NoError(t, err)
	assert.Equal(t, "price_new", price.ID)
	assert.Equal(t, "price_old", deactivated)
}
