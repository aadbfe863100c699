package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"trends-explorer/internal/service"
	"trends-explorer/pkg/analysis"
	"trends-explorer/pkg/export"
	"trends-explorer/pkg/logger"
)

type Controller struct {
	analysis service.AnalysisService
	export   service.ExportService
	metrics  http.Handler
	log      *logger.Logger
}

type AnalyzeRequest struct {
	Keywords  string `json:"keywords" query:"keywords"`
	Timeframe string `json:"timeframe" query:"timeframe"`
	Geo       string `json:"geo" query:"geo"`
}

type StatusResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// NewController wires the dashboard routes. metrics may be nil, in which
// case /metrics is not served.
func NewController(
	analysisService service.AnalysisService,
	exportService service.ExportService,
	metrics http.Handler,
	l *logger.Logger,
) *Controller {
	if l == nil {
		l = logger.GetLogger()
	}
	return &Controller{
		analysis: analysisService,
		export:   exportService,
		metrics:  metrics,
		log:      l.WithField("component", "http"),
	}
}

// App builds the fiber application serving the dashboard API.
func (c *Controller) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "trends-explorer",
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		ErrorHandler:          c.handleError,
	})
	app.Use(recover.New())
	app.Use(c.requestLogger)

	app.Get("/health", c.health)

	api := app.Group("/api")
	api.Get("/analyze", c.analyze)
	api.Post("/analyze", c.analyze)
	api.Get("/bands", c.bands)
	api.Get("/export/interest.csv", c.interestCSV)
	api.Get("/export/regions.csv", c.regionsCSV)

	if c.metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(c.metrics))
	}
	return app
}

func (c *Controller) health(ctx *fiber.Ctx) error {
	return ctx.JSON(StatusResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (c *Controller) analyze(ctx *fiber.Ctx) error {
	var req AnalyzeRequest
	if err := parseRequest(ctx, &req); err != nil {
		return err
	}

	report, err := c.analysis.Analyze(ctx.UserContext(), req.Keywords, req.Timeframe, req.Geo)
	if err != nil {
		return err
	}
	return ctx.JSON(report)
}

func (c *Controller) bands(ctx *fiber.Ctx) error {
	return ctx.JSON(c.analysis.Bands())
}

func (c *Controller) interestCSV(ctx *fiber.Ctx) error {
	var req AnalyzeRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	data, err := c.export.InterestCSV(ctx.UserContext(), req.Keywords, req.Timeframe, req.Geo)
	if err != nil {
		return err
	}
	ctx.Attachment(export.InterestFileName)
	return ctx.Send(data)
}

func (c *Controller) regionsCSV(ctx *fiber.Ctx) error {
	keywords, err := analysis.NormalizeKeywords([]string{ctx.Query("keyword")})
	if err != nil {
		return err
	}
	data, err := c.export.RegionsCSV(ctx.UserContext(), keywords[0], ctx.Query("geo"))
	if err != nil {
		return err
	}
	ctx.Attachment(export.RegionsFileName(keywords[0]))
	return ctx.Send(data)
}

func parseRequest(ctx *fiber.Ctx, req *AnalyzeRequest) error {
	if ctx.Method() == fiber.MethodPost {
		if err := ctx.BodyParser(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
		}
		return nil
	}
	if err := ctx.QueryParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func (c *Controller) handleError(ctx *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "internal_error"

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		status, code = fe.Code, "bad_request"
		if fe.Code == fiber.StatusNotFound {
			code = "not_found"
		}
	case errors.Is(err, analysis.ErrNoKeywords):
		status, code = fiber.StatusBadRequest, string(analysis.KindNoKeywords)
	case errors.Is(err, analysis.ErrTooManyKeywords):
		status, code = fiber.StatusBadRequest, "too_many_keywords"
	case errors.Is(err, service.ErrInvalidTimeframe):
		status, code = fiber.StatusBadRequest, "invalid_timeframe"
	case errors.Is(err, analysis.ErrInvalidInput):
		status, code = fiber.StatusUnprocessableEntity, string(analysis.KindInvalidInput)
	case errors.Is(err, analysis.ErrDataUnavailable):
		status, code = fiber.StatusBadGateway, string(analysis.KindDataUnavailable)
	}

	if status >= fiber.StatusInternalServerError {
		c.log.WithError(err).WithField("path", ctx.Path()).Error("Request failed")
	}
	return ctx.Status(status).JSON(ErrorResponse{Error: code, Message: err.Error()})
}

func (c *Controller) requestLogger(ctx *fiber.Ctx) error {
	start := time.Now()
	if err := ctx.Next(); err != nil {
		if herr := c.handleError(ctx, err); herr != nil {
			return herr
		}
	}

	c.log.WithFields(map[string]interface{}{
		"method":   ctx.Method(),
		"path":     ctx.Path(),
		"status":   ctx.Response().StatusCode(),
		"duration": time.Since(start).String(),
	}).Debug("HTTP request")
	return nil
}
