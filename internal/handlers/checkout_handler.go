package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// checkoutLinks are the fixed payment-provider URLs; the tier is chosen
// client-side on the paywall screens.
var checkoutLinks = map[string]string{
	"monthly": "https://buy.stripe.com/shapemate-monthly",
	"yearly":  "https://buy.stripe.com/shapemate-yearly",
	"promo":   "https://buy.stripe.com/shapemate-promo-50",
}

type CheckoutHandler struct{}

func NewCheckoutHandler() *CheckoutHandler {
	return &CheckoutHandler{}
}

func (h *CheckoutHandler) Redirect(c *fiber.Ctx) error {
	link, ok := checkoutLinks[c.Params("tier")]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Unknown plan tier"})
	}
	return c.Redirect(link, fiber.StatusFound)
}
