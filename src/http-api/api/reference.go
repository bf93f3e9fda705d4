package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

func (s *APIServer) GetOperator(c *fiber.Ctx) error {
	code := strings.ToUpper(c.Params("code"))
	return c.JSON(ReferenceResponse{Code: code, Name: s.Resolver.OperatorName(code)})
}

// GetStation resolves a TIPLOC. Unknown codes come back as their own name.
func (s *APIServer) GetStation(c *fiber.Ctx) error {
	code := strings.ToUpper(c.Params("code"))
	return c.JSON(ReferenceResponse{Code: code, Name: s.Resolver.StationName(code)})
}
