package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/GNANESWARARAO24/revticket-aws/internal/domain"
	"github.com/GNANESWARARAO24/revticket-aws/internal/inventory"
	"github.com/GNANESWARARAO24/revticket-aws/internal/mocks"
	appvalidator "github.com/GNANESWARARAO24/revticket-aws/internal/validator"
)

func newTestApplication(opts ...func(*Application)) *Application {
	app := &Application{
		validator:      appvalidator.NewValidator(),
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		sessionManager: scs.New(),
		seatRepo:       &mocks.MockSeatRepo{},
		showtimeRepo:   &mocks.MockShowtimeRepo{},
		bookingRepo:    &mocks.MockBookingRepo{},
	}

	for _, opt := range opts {
		opt(app)
	}

	refundPolicy, err := domain.NewFlatRateRefundPolicy(decimal.NewFromFloat(0.9))
	if err != nil {
		panic(err)
	}

	app.holds = inventory.NewHoldManager(app.seatRepo, inventory.DefaultHoldTTL, app.logger, nil)
	app.bookings = inventory.NewBookingCoordinator(app.bookingRepo, app.showtimeRepo, refundPolicy, app.logger, nil)
	app.availability = inventory.NewAvailabilityService(app.seatRepo, nil)

	return app
}

// setupTestSession attaches a committed session to the request so handlers
// see a non-empty session token, like a browser on its second request.
func setupTestSession(t *testing.T, app *Application, r *http.Request) *http.Request {
	t.Helper()

	ctx, err := app.sessionManager.Load(r.Context(), "")
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}

	app.sessionManager.Put(ctx, SessionKeyGuest.String(), true)

	token, _, err := app.sessionManager.Commit(ctx)
	if err != nil {
		t.Fatalf("Failed to commit session: %v", err)
	}

	ctx, err = app.sessionManager.Load(r.Context(), token)
	if err != nil {
		t.Fatalf("Failed to reload session: %v", err)
	}

	return r.WithContext(ctx)
}

// sessionToken returns the token of the session attached to the request.
func sessionToken(app *Application, r *http.Request) string {
	return app.sessionManager.Token(r.Context())
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

// withURLParams attaches chi route parameters to the request, standing in
// for the router in direct handler tests.
func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}

	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantErrMessage string) {
	t.Helper()

	if wantStatus >= 200 && wantStatus < 300 {
		return
	}

	switch wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if wantErrMessage != "" && !errorSet[wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", wantErrMessage)
		}

	default:
		var errorResp ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if wantErrMessage != "" && errorResp.Message != wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, wantErrMessage)
		}
	}
}
