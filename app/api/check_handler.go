package api

import (
	"github.com/gofiber/fiber/v2"

	"pdfchat/types"
)

type CheckHandler struct{}

func NewCheckHandler() *CheckHandler {
	return &CheckHandler{}
}

func (h CheckHandler) HandleRoot(c *fiber.Ctx) error {
	return c.JSON(types.RootResponse{
		Message:  "Welcome to the Chat with your PDF API!",
		DocsURL:  "/docs",
		RedocURL: "/redoc",
	})
}

func (h CheckHandler) HandleHealthy(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"result": "ok"})
}
