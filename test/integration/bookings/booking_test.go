package integrationtests

import (
	"fmt"
	"testing"
	"time"

	"fixhub/pkg/model"
	"fixhub/test/integration/testutil"
)

func decodeBooking(t *testing.T, resp *testutil.Response) *model.Booking {
	t.Helper()
	var result struct {
		Data model.Booking `json:"data"`
	}
	if err := resp.DecodeJSON(&result); err != nil {
		t.Fatalf("failed to decode booking: %v", err)
	}
	return &result.Data
}

func decodeBookingsPaginated(t *testing.T, resp *testutil.Response) ([]model.Booking, int64) {
	t.Helper()
	var result struct {
		Data       []model.Booking `json:"data"`
		TotalCount int64           `json:"total_count"`
	}
	if err := resp.DecodeJSON(&result); err != nil {
		t.Fatalf("failed to decode paginated bookings: %v", err)
	}
	return result.Data, result.TotalCount
}

func validBooking(serviceID string, scheduledAt time.Time) map[string]any {
	return map[string]any{
		"service_id":   serviceID,
		"customer_id":  "customer-1",
		"scheduled_at": scheduledAt.Format(time.RFC3339),
		"price":        120.0,
	}
}

func TestBookingLifecycle(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, httpClient := env.Setup(t)
	defer env.Cleanup(t, mongo)

	serviceID := mongo.SeedService(t, "Pipe Repair", "Plumbing")
	scheduledAt := time.Now().Add(24 * time.Hour)

	// Create defaults to pending/unpaid.
	createResp := httpClient.POST(t, "/api/v1/bookings", validBooking(serviceID, scheduledAt))
	testutil.AssertStatusCode(t, createResp, 201)
	created := decodeBooking(t, createResp)
	if created.ID == "" {
		t.Fatal("expected booking ID to be set")
	}
	if created.Status != model.StatusPending {
		t.Errorf("expected default status pending, got %s", created.Status)
	}
	if created.PaymentStatus != model.PaymentUnpaid {
		t.Errorf("expected default payment_status unpaid, got %s", created.PaymentStatus)
	}

	// A second active booking for the same service and slot conflicts.
	dupResp := httpClient.POST(t, "/api/v1/bookings", validBooking(serviceID, scheduledAt))
	testutil.AssertStatusCode(t, dupResp, 409)

	getResp := httpClient.GET(t, "/api/v1/bookings/"+created.ID)
	testutil.AssertStatusCode(t, getResp, 200)
	fetched := decodeBooking(t, getResp)
	if fetched.ID != created.ID {
		t.Errorf("expected same booking, got %s != %s", fetched.ID, created.ID)
	}

	listResp := httpClient.GET(t, "/api/v1/bookings?limit=10&offset=0")
	testutil.AssertStatusCode(t, listResp, 200)
	bookings, total := decodeBookingsPaginated(t, listResp)
	if total != 1 || len(bookings) != 1 {
		t.Errorf("expected one booking listed, got total=%d len=%d", total, len(bookings))
	}

	// Walk the happy path to completed; accepting assigns the partner.
	statusPath := fmt.Sprintf("/api/v1/bookings/%s/status", created.ID)

	acceptResp := httpClient.PATCH(t, statusPath, map[string]any{
		"status":     model.StatusAccepted,
		"partner_id": "partner-1",
	})
	testutil.AssertStatusCode(t, acceptResp, 200)
	accepted := decodeBooking(t, acceptResp)
	if accepted.Status != model.StatusAccepted {
		t.Errorf("expected status accepted, got %s", accepted.Status)
	}
	if accepted.PartnerID != "partner-1" {
		t.Errorf("expected partner-1 assigned, got %q", accepted.PartnerID)
	}

	startResp := httpClient.PATCH(t, statusPath, map[string]any{"status": model.StatusInProgress})
	testutil.AssertStatusCode(t, startResp, 200)

	// Skipping straight from in_progress back to pending is rejected.
	invalidResp := httpClient.PATCH(t, statusPath, map[string]any{"status": model.StatusPending})
	testutil.AssertStatusCode(t, invalidResp, 422)
	testutil.AssertContains(t, invalidResp, "Invalid transition")

	completeResp := httpClient.PATCH(t, statusPath, map[string]any{"status": model.StatusCompleted})
	testutil.AssertStatusCode(t, completeResp, 200)

	// Completed bookings are locked.
	lockedResp := httpClient.PATCH(t, statusPath, map[string]any{"status": model.StatusCancelled})
	testutil.AssertStatusCode(t, lockedResp, 422)
	testutil.AssertContains(t, lockedResp, "booking is completed")
}

func TestBookingNotFoundAndBadInput(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, httpClient := env.Setup(t)
	defer env.Cleanup(t, mongo)

	resp := httpClient.GET(t, "/api/v1/bookings/507f1f77bcf86cd799439011")
	testutil.AssertStatusCode(t, resp, 404)

	resp = httpClient.GET(t, "/api/v1/bookings/not-a-hex-id")
	testutil.AssertStatusCode(t, resp, 400)

	resp = httpClient.POSTRaw(t, "/api/v1/bookings", []byte(`{"bad": json`))
	testutil.AssertStatusCode(t, resp, 400)

	// Missing service_id fails validation.
	resp = httpClient.POST(t, "/api/v1/bookings", map[string]any{
		"customer_id":  "customer-1",
		"scheduled_at": time.Now().Add(time.Hour).Format(time.RFC3339),
	})
	testutil.AssertStatusCode(t, resp, 422)
}

func TestTransitionEndpoints(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, httpClient := env.Setup(t)
	defer env.Cleanup(t, mongo)

	resp := httpClient.POST(t, "/api/v1/transitions/validate", map[string]any{
		"from": model.StatusPending,
		"to":   model.StatusAccepted,
	})
	testutil.AssertStatusCode(t, resp, 200)
	var decision struct {
		Data model.TransitionDecision `json:"data"`
	}
	if err := resp.DecodeJSON(&decision); err != nil {
		t.Fatalf("failed to decode decision: %v", err)
	}
	if !decision.Data.Allowed {
		t.Error("expected pending -> accepted to be allowed")
	}

	resp = httpClient.POST(t, "/api/v1/transitions/validate", map[string]any{
		"from": model.StatusCompleted,
		"to":   model.StatusPending,
	})
	testutil.AssertStatusCode(t, resp, 200)
	if err := resp.DecodeJSON(&decision); err != nil {
		t.Fatalf("failed to decode decision: %v", err)
	}
	if decision.Data.Allowed {
		t.Error("expected completed -> pending to be rejected")
	}

	resp = httpClient.GET(t, "/api/v1/transitions/pending")
	testutil.AssertStatusCode(t, resp, 200)
	testutil.AssertContains(t, resp, "accepted")

	resp = httpClient.GET(t, "/api/v1/transitions/archived")
	testutil.AssertStatusCode(t, resp, 400)
}
