// Package server exposes the analysis pipeline and the stored records over
// HTTP.
package server

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/revelaction/stylo/analyze"
	"github.com/revelaction/stylo/prompt"
	"github.com/revelaction/stylo/storage"
)

const Message = "stylo API is up and running"

// ErrNoText is the error body of an analysis request without text.
const ErrNoText = "No text provided."

type Config struct {
	Prefork bool

	// Quiet disables the request logger.
	Quiet bool
}

type Server struct {
	svc     *analyze.Service
	records storage.AnalysisRepository

	Logger *slog.Logger
}

// New returns the fiber app serving svc. The record routes are only
// mounted when records is not nil.
func New(svc *analyze.Service, records storage.AnalysisRepository, cfg Config) *fiber.App {
	s := &Server{svc: svc, records: records, Logger: slog.Default()}

	app := fiber.New(fiber.Config{
		Prefork:               cfg.Prefork,
		DisableStartupMessage: cfg.Quiet,
	})
	if !cfg.Quiet {
		app.Use(logger.New())
	}
	app.Use(recover.New())
	app.Use(compress.New())
	app.Use(cors.New())

	s.Routes(app)
	return app
}

func (s *Server) Routes(router fiber.Router) {
	router.Get("/", s.root)
	router.Get("/ping", func(c *fiber.Ctx) error { return c.Status(fiber.StatusOK).SendString("pong") })
	router.Post("/analyze", s.analyze)

	if s.records == nil {
		return
	}

	router.Get("/records/:id", s.record)
	router.Get("/users/:user/records", s.userRecords)
}

func (s *Server) root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": Message})
}

func (s *Server) analyze(c *fiber.Ctx) error {
	type inp struct {
		Text string `json:"text"`
		Lang string `json:"lang"`
		User string `json:"user"`
	}
	input := new(inp)

	if err := c.BodyParser(input); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	if input.Lang != "" {
		if _, err := prompt.ParseLang(input.Lang); err != nil {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
	}

	res, err := s.svc.Analyze(c.UserContext(), analyze.Request{Text: input.Text, Lang: input.Lang, User: input.User})
	if err != nil {
		if errors.Is(err, analyze.ErrNoContent) {
			return fail(c, fiber.StatusBadRequest, ErrNoText)
		}

		s.Logger.Error("analysis failed", "error", err)
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":        true,
		"language":  res.Language,
		"analysis":  res.Analysis,
		"prompt":    res.Prompt,
		"record_id": res.RecordId,
	})
}

func (s *Server) record(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid record id")
	}

	name := c.Query("user")
	if name == "" {
		return fail(c, fiber.StatusBadRequest, "missing user")
	}

	user, err := s.lookupUser(name)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	a, err := s.records.Analysis(id, user.Id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "record not found")
	case errors.Is(err, storage.ErrNotOwner):
		return fail(c, fiber.StatusForbidden, "record belongs to another user")
	case err != nil:
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":     true,
		"record": a,
	})
}

func (s *Server) userRecords(c *fiber.Ctx) error {
	user, err := s.lookupUser(c.Params("user"))
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	records, err := s.records.Analyses(user.Id)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":      true,
		"records": records,
	})
}

// lookupUser resolves name without creating it. An unknown user gets the
// zero User, which owns no records.
func (s *Server) lookupUser(name string) (storage.User, error) {
	user, err := s.records.LookupUser(name)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.User{Name: name}, nil
	}
	return user, err
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"ok":    false,
		"error": msg,
	})
}
