package integrationtests

import (
	"testing"

	"fixhub/pkg/model"
	"fixhub/test/integration/testutil"
)

func TestTokenRegistrationAndDispatch(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, httpClient := env.Setup(t)
	defer env.Cleanup(t, mongo)

	mongo.SeedCustomer(t, "customer-1", nil)

	resp := httpClient.POST(t, "/api/v1/users/customer-1/tokens", map[string]any{
		"token": "device-token-aaaa",
	})
	testutil.AssertStatusCode(t, resp, 204)

	// Registering for an unknown user is a 404.
	resp = httpClient.POST(t, "/api/v1/users/ghost/tokens", map[string]any{
		"token": "device-token-bbbb",
	})
	testutil.AssertStatusCode(t, resp, 404)

	// Too-short tokens fail validation.
	resp = httpClient.POST(t, "/api/v1/users/customer-1/tokens", map[string]any{
		"token": "short",
	})
	testutil.AssertStatusCode(t, resp, 422)
}

func TestDispatchWithoutTokens(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, httpClient := env.Setup(t)
	defer env.Cleanup(t, mongo)

	mongo.SeedCustomer(t, "customer-silent", []string{})

	// No devices means a successful zero-count dispatch; the gateway is
	// never contacted.
	resp := httpClient.POST(t, "/api/v1/notifications/dispatch", map[string]any{
		"user_id": "customer-silent",
		"title":   "Booking update",
		"body":    "Your booking is now accepted",
	})
	testutil.AssertStatusCode(t, resp, 200)

	var result struct {
		Data model.DispatchResult `json:"data"`
	}
	if err := resp.DecodeJSON(&result); err != nil {
		t.Fatalf("failed to decode dispatch result: %v", err)
	}
	if result.Data.Delivered != 0 || result.Data.Failed != 0 {
		t.Errorf("expected zero counts, got %+v", result.Data)
	}

	resp = httpClient.POST(t, "/api/v1/notifications/dispatch", map[string]any{
		"user_id": "ghost",
		"title":   "Booking update",
		"body":    "Your booking is now accepted",
	})
	testutil.AssertStatusCode(t, resp, 404)
}
