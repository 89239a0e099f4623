package api

import (
	"cmcs/docs"
	"cmcs/internal/api/handlers"
	"cmcs/internal/models"
	"cmcs/pkg/auth"
	"cmcs/pkg/config"
	"cmcs/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Claims   *handlers.ClaimHandler
	Invoices *handlers.InvoiceHandler
	Reports  *handlers.ReportHandler
}

func SetupRouter(
	cfg config.ServerConfig,
	h Handlers,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "cmcs",
		BodyLimit:    cfg.BodyLimit,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				appLogger.Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Protected routes
	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))
	can := func(caps ...models.Capability) fiber.Handler {
		return middleware.RequireCapability(appLogger, caps...)
	}

	claims := protected.Group("/claims")
	claims.Post("", can(models.CapSubmitClaim), h.Claims.SubmitClaim)
	claims.Get("/mine", can(models.CapViewOwnClaims), h.Claims.ListMyClaims)
	claims.Get("", can(models.CapViewPendingClaims), h.Claims.ListClaims)
	claims.Get("/:id/document", can(models.CapViewSupportingDocument), h.Claims.DownloadDocument)
	claims.Post("/:id/approve", can(models.CapDecideClaim), h.Claims.ApproveClaim)
	claims.Post("/:id/reject", can(models.CapDecideClaim), h.Claims.RejectClaim)
	claims.Post("/:id/invoice", can(models.CapIssueInvoice), h.Invoices.IssueInvoice)
	claims.Get("/:id/invoice", can(models.CapViewInvoices), h.Invoices.DownloadInvoice)

	invoices := protected.Group("/invoices", can(models.CapViewInvoices))
	invoices.Get("", h.Invoices.ListInvoices)
	invoices.Get("/candidates", can(models.CapIssueInvoice), h.Invoices.ListCandidates)

	reports := protected.Group("/reports", can(models.CapViewReports))
	reports.Post("", can(models.CapGenerateReport), h.Reports.GenerateReport)
	reports.Get("", h.Reports.ListReports)
	reports.Get("/options", can(models.CapGenerateReport), h.Reports.Options)
	reports.Get("/:id", h.Reports.DownloadReport)

	return app
}
