package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/musemind/musemind-server/internal/api/metrics"
	"github.com/musemind/musemind-server/internal/core/ports"
)

// creditPacks maps purchasable pack names to the credits they grant.
var creditPacks = map[string]int{
	"starter":  5,
	"standard": 15,
	"studio":   50,
}

// CreditsHandler handles credit purchases. Payment collection itself happens
// client-side (simulated); this endpoint applies the resulting grant.
type CreditsHandler struct {
	users ports.UserRepository
}

func NewCreditsHandler(users ports.UserRepository) *CreditsHandler {
	return &CreditsHandler{users: users}
}

type purchaseRequest struct {
	Pack string `json:"pack" validate:"required,oneof=starter standard studio"`
}

type purchaseResponse struct {
	Credits int    `json:"credits"`
	Message string `json:"message"`
}

// Purchase handles POST /credits/purchase.
//
// @Summary      Purchase a credit pack
// @Tags         credits
// @Accept       json
// @Produce      json
// @Param        body  body      purchaseRequest  true  "Pack name"
// @Success      200   {object}  purchaseResponse
// @Failure      400   {object}  map[string]string
// @Router       /credits/purchase [post]
func (h *CreditsHandler) Purchase(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	var req purchaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	credits, err := h.users.AddCredits(c.Request().Context(), id, creditPacks[req.Pack])
	if err != nil {
		return err
	}
	metrics.CreditsPurchasedTotal.Add(float64(creditPacks[req.Pack]))

	return c.JSON(http.StatusOK, purchaseResponse{
		Credits: credits,
		Message: "Credits added successfully",
	})
}
