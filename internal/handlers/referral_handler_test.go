package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

type stubReferralRepo struct {
	exists   bool
	err      error
	lastCode string
}

func (r *stubReferralRepo) Exists(_ context.Context, code string) (bool, error) {
	r.lastCode = code
	return r.exists, r.err
}

func newReferralApp(repo *stubReferralRepo) *fiber.App {
	handler := NewReferralHandler(repo)
	app := fiber.New()
	app.Get("/referral/:code", handler.Validate)
	return app
}

func TestValidateReferralCode(t *testing.T) {
	repo := &stubReferralRepo{exists: true}
	app := newReferralApp(repo)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/referral/FRIEND50", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
	if repo.lastCode != "FRIEND50" {
		t.Errorf("Expected code FRIEND50, got %q", repo.lastCode)
	}
}

func TestValidateReferralCodeLookupFailure(t *testing.T) {
	app := newReferralApp(&stubReferralRepo{err: errors.New("db down")})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/referral/FRIEND50", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", resp.StatusCode)
	}
}

func TestCheckoutRedirect(t *testing.T) {
	handler := NewCheckoutHandler()
	app := fiber.New()
	app.Get("/checkout/:tier", handler.Redirect)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/checkout/monthly", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Errorf("Expected 302, got %d", resp.StatusCode)
	}
	if location := resp.Header.Get("Location"); location != checkoutLinks["monthly"] {
		t.Errorf("Expected redirect to the monthly link, got %q", location)
	}

	missing, err := app.Test(httptest.NewRequest(http.MethodGet, "/checkout/lifetime", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown tier, got %d", missing.StatusCode)
	}
}
