package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type referralChecker interface {
	Exists(ctx context.Context, code string) (bool, error)
}

type ReferralHandler struct {
	codes referralChecker
}

func NewReferralHandler(codes referralChecker) *ReferralHandler {
	return &ReferralHandler{codes: codes}
}

// Validate checks a referral code against the lookup table. The referral
// step is optional; the client calls this only when a code was entered.
func (h *ReferralHandler) Validate(c *fiber.Ctx) error {
	code := strings.TrimSpace(c.Params("code"))
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Referral code is required"})
	}

	valid, err := h.codes.Exists(c.Context(), code)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to validate referral code"})
	}
	return c.JSON(fiber.Map{"code": code, "valid": valid})
}
