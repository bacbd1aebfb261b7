// Honeytrap - Agentic Scam-Baiting Honeypot
//
// A honeypot service that detects scam messages, engages the sender with a
// believable persona, and extracts actionable intelligence (bank accounts,
// UPI ids, phone numbers, phishing links) from the conversation.
//
// Modes:
//  1. HTTP server:  honeytrap serve [port]
//  2. CLI scan:     honeytrap scan "text to check"
//  3. Demo run:     honeytrap demo [scam-type]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/dagger-5328/honeytrap/pkg/callback"
	"github.com/dagger-5328/honeytrap/pkg/config"
	"github.com/dagger-5328/honeytrap/pkg/detect"
	"github.com/dagger-5328/honeytrap/pkg/honeypot"
	"github.com/dagger-5328/honeytrap/pkg/patterns"
	"github.com/dagger-5328/honeytrap/pkg/persona"
	"github.com/dagger-5328/honeytrap/pkg/session"
	"github.com/dagger-5328/honeytrap/pkg/simulator"
	"github.com/dagger-5328/honeytrap/pkg/store"
)

const Version = "0.1.0"

func main() {
	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Optional .env for local development; absence is not an error.
	if err := godotenv.Load(); err == nil {
		log.Printf("[STARTUP] loaded environment from .env")
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "serve":
		port := ""
		if len(os.Args) > 2 {
			port = os.Args[2]
		}
		runHTTPServer(port)
	case "scan":
		if len(os.Args) < 3 {
			fmt.Println("Usage: honeytrap scan <text>")
			os.Exit(1)
		}
		text := strings.Join(os.Args[2:], " ")
		runCLIScan(text)
	case "demo":
		scamType := "banking_fraud"
		if len(os.Args) > 2 {
			scamType = os.Args[2]
		}
		runDemo(scamType)
	case "version":
		fmt.Printf("Honeytrap v%s\n", Version)
		fmt.Println("Agentic Scam-Baiting Honeypot")
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("Honeytrap v%s - Agentic Scam-Baiting Honeypot\n\n", Version)
	fmt.Println("Usage:")
	fmt.Println("  honeytrap serve [port]      Start the HTTP API server (default: :8080)")
	fmt.Println("  honeytrap scan <text>       Score a message for scam signals")
	fmt.Println("  honeytrap demo [scam-type]  Run a simulated scammer against the honeypot")
	fmt.Println("  honeytrap version           Show version")
	fmt.Println("")
	fmt.Println("Scam types for demo:")
	for _, st := range simulator.ScamTypes() {
		fmt.Printf("  %s\n", st)
	}
	fmt.Println("")
	fmt.Println("Environment Variables:")
	fmt.Println("  HONEYTRAP_LISTEN_ADDR      Bind address (default :8080)")
	fmt.Println("  HONEYTRAP_API_KEY          x-api-key required on /api routes")
	fmt.Println("  HONEYTRAP_MIN_CONFIDENCE   Engagement threshold 0-100 (default 50)")
	fmt.Println("  HONEYTRAP_REDIS_ADDR       Redis address for the session registry")
	fmt.Println("  DATABASE_URL               Postgres URL for the report archive")
	fmt.Println("  HONEYTRAP_CALLBACK_URL     Final-result delivery endpoint")
}

// ============================================================================
// Wiring
// ============================================================================

// buildHoneypot assembles the orchestrator from configuration. Optional
// integrations degrade gracefully: a honeypot with no archive and no callback
// still detects, engages and extracts.
func buildHoneypot(ctx context.Context, cfg *config.Config) (*honeypot.Honeypot, func()) {
	var cleanups []func()

	patternCatalog := patterns.Default()
	if cfg.PatternCatalog != "" {
		loaded, err := patterns.Load(cfg.PatternCatalog)
		if err != nil {
			log.Fatalf("[STARTUP] pattern catalog %s: %v", cfg.PatternCatalog, err)
		}
		patternCatalog = loaded
		log.Printf("[STARTUP] ✓ Pattern catalog loaded from %s", cfg.PatternCatalog)
	} else {
		log.Printf("[STARTUP] ✓ Built-in pattern catalog (%d categories)", len(patternCatalog.Categories))
	}

	personaCatalog := persona.Default()
	if cfg.PersonaCatalog != "" {
		loaded, err := persona.Load(cfg.PersonaCatalog)
		if err != nil {
			log.Fatalf("[STARTUP] persona catalog %s: %v", cfg.PersonaCatalog, err)
		}
		personaCatalog = loaded
		log.Printf("[STARTUP] ✓ Persona catalog loaded from %s", cfg.PersonaCatalog)
	} else {
		log.Printf("[STARTUP] ✓ Built-in persona catalog (%d personas)", len(personaCatalog.Personas))
	}

	var registry session.Store
	if cfg.RedisAddr != "" {
		client := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{cfg.RedisAddr},
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("[STARTUP] redis %s: %v", cfg.RedisAddr, err)
		}
		registry = session.NewRedisStore(client, session.WithRedisTTL(cfg.SessionTTL))
		cleanups = append(cleanups, func() { client.Close() })
		log.Printf("[STARTUP] ✓ Session registry: redis (%s)", cfg.RedisAddr)
	} else {
		mem := session.NewMemoryStore(session.WithTTL(cfg.SessionTTL))
		registry = mem
		cleanups = append(cleanups, mem.Close)
		log.Printf("[STARTUP] ○ Session registry: in-memory (sessions lost on restart)")
	}

	opts := []honeypot.Option{
		honeypot.WithDetector(detect.New(patternCatalog)),
		honeypot.WithPersonaCatalog(personaCatalog),
		honeypot.WithMinConfidence(cfg.MinConfidence),
		honeypot.WithMaxTurns(cfg.MaxTurns),
		honeypot.WithTypingDelay(cfg.MinTypingDelay, cfg.MaxTypingDelay),
		honeypot.WithHumanTouches(cfg.EnableTypos),
	}
	if cfg.DefaultPersona != "" {
		opts = append(opts, honeypot.WithDefaultPersona(cfg.DefaultPersona))
	}

	if cfg.DatabaseURL != "" {
		archive, err := store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("[STARTUP] report archive: %v", err)
		}
		if err := archive.EnsureSchema(ctx); err != nil {
			log.Fatalf("[STARTUP] report archive schema: %v", err)
		}
		opts = append(opts, honeypot.WithArchive(archive))
		cleanups = append(cleanups, archive.Close)
		log.Printf("[STARTUP] ✓ Report archive: postgres")
	} else {
		log.Printf("[STARTUP] ○ Report archive disabled (DATABASE_URL not set)")
	}

	if cfg.CallbackURL != "" {
		var copts []callback.ClientOption
		if cfg.CallbackKey != "" {
			copts = append(copts, callback.WithAPIKey(cfg.CallbackKey))
		}
		opts = append(opts, honeypot.WithPublisher(callback.NewClient(cfg.CallbackURL, copts...)))
		log.Printf("[STARTUP] ✓ Final-result callback: %s", cfg.CallbackURL)
	} else {
		log.Printf("[STARTUP] ○ Final-result callback disabled (HONEYTRAP_CALLBACK_URL not set)")
	}

	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	return honeypot.New(registry, opts...), cleanup
}

// ============================================================================
// HTTP Server Mode
// ============================================================================

type honeypotRequest struct {
	SessionID string `json:"sessionId"`
	Message   struct {
		Sender    string `json:"sender"`
		Text      string `json:"text"`
		Timestamp int64  `json:"timestamp"` // epoch millis; 0 means "now"
	} `json:"message"`
}

func runHTTPServer(port string) {
	cfg := config.NewDefaultConfig()
	if port != "" {
		cfg.ListenAddr = ":" + strings.TrimPrefix(port, ":")
	}
	cfg.MustValidate()

	ctx := context.Background()
	trap, cleanup := buildHoneypot(ctx, cfg)
	defer cleanup()

	app := fiber.New(fiber.Config{
		AppName: "Honeytrap",
	})

	// Health check stays open; everything under /api needs the key.
	app.Get("/health", func(c fiber.Ctx) error {
		states, err := trap.Sessions(c.Context())
		if err != nil {
			log.Printf("[HEALTH] session registry: %v", err)
		}
		return c.JSON(fiber.Map{
			"status":          "healthy",
			"service":         "honeytrap",
			"version":         Version,
			"active_sessions": len(states),
		})
	})

	app.Use("/api", func(c fiber.Ctx) error {
		if cfg.APIKey != "" && c.Get("x-api-key") != cfg.APIKey {
			return c.Status(401).JSON(fiber.Map{
				"status":  "error",
				"message": "invalid or missing api key",
			})
		}
		return c.Next()
	})

	// Main entry point: one inbound scammer message, one persona reply.
	app.Post("/api/honeypot", func(c fiber.Ctx) error {
		var req honeypotRequest
		if err := c.Bind().Body(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{
				"status":  "error",
				"message": "invalid request body",
			})
		}
		if req.SessionID == "" {
			return c.Status(400).JSON(fiber.Map{
				"status":  "error",
				"message": "sessionId is required",
			})
		}
		if strings.TrimSpace(req.Message.Text) == "" {
			return c.Status(400).JSON(fiber.Map{
				"status":  "error",
				"message": "message.text is required",
			})
		}

		ts := time.Now()
		if req.Message.Timestamp > 0 {
			ts = time.UnixMilli(req.Message.Timestamp)
		}

		turn, err := trap.HandleMessage(c.Context(), req.SessionID, req.Message.Text, ts)
		if err != nil {
			if errors.Is(err, honeypot.ErrEmptyMessage) {
				return c.Status(400).JSON(fiber.Map{
					"status":  "error",
					"message": "message.text is required",
				})
			}
			log.Printf("[API] session %s: %v", req.SessionID, err)
			return c.Status(500).JSON(fiber.Map{
				"status":  "error",
				"message": "internal error",
			})
		}

		// A real person does not answer instantly.
		if err := trap.Pace(c.Context()); err != nil {
			return c.Status(500).JSON(fiber.Map{
				"status":  "error",
				"message": "request cancelled",
			})
		}

		return c.JSON(fiber.Map{
			"status": "success",
			"reply":  turn.Reply,
		})
	})

	app.Get("/api/sessions", func(c fiber.Ctx) error {
		states, err := trap.Sessions(c.Context())
		if err != nil {
			log.Printf("[API] list sessions: %v", err)
			return c.Status(500).JSON(fiber.Map{
				"status":  "error",
				"message": "internal error",
			})
		}
		out := make([]fiber.Map, 0, len(states))
		for _, st := range states {
			out = append(out, fiber.Map{
				"session_id":     st.SessionID,
				"scam_detected":  st.ScamDetected,
				"scam_type":      st.ScamType,
				"total_messages": st.MessageCount,
				"start_time":     st.CreatedAt,
			})
		}
		return c.JSON(fiber.Map{
			"active_sessions": len(out),
			"sessions":        out,
		})
	})

	app.Get("/api/session/:id", func(c fiber.Ctx) error {
		st, err := trap.Session(c.Context(), c.Params("id"))
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				return c.Status(404).JSON(fiber.Map{
					"status":  "error",
					"message": "session not found",
				})
			}
			log.Printf("[API] session %s: %v", c.Params("id"), err)
			return c.Status(500).JSON(fiber.Map{
				"status":  "error",
				"message": "internal error",
			})
		}
		return c.JSON(fiber.Map{
			"session_id":     st.SessionID,
			"scam_detected":  st.ScamDetected,
			"scam_type":      st.ScamType,
			"confidence":     st.Confidence,
			"total_messages": st.MessageCount,
			"start_time":     st.CreatedAt,
			"last_seen":      st.LastSeenAt,
			"persona":        st.Conversation.PersonaID,
			"intelligence":   st.Harvest,
			"agent_notes":    st.Notes,
		})
	})

	// Terminate a session early; extraction and reporting run on whatever
	// transcript exists.
	app.Post("/api/session/:id/end", func(c fiber.Ctx) error {
		report, err := trap.EndSession(c.Context(), c.Params("id"))
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				return c.Status(404).JSON(fiber.Map{
					"status":  "error",
					"message": "session not found",
				})
			}
			log.Printf("[API] end session %s: %v", c.Params("id"), err)
			return c.Status(500).JSON(fiber.Map{
				"status":  "error",
				"message": "internal error",
			})
		}
		return c.JSON(fiber.Map{
			"status": "success",
			"report": report,
		})
	})

	log.Printf("Honeytrap HTTP server starting on %s", cfg.ListenAddr)
	log.Printf("Endpoints:")
	log.Printf("  GET  /health                - Health check")
	log.Printf("  POST /api/honeypot          - Inbound message, persona reply")
	log.Printf("  GET  /api/sessions          - Active session summaries")
	log.Printf("  GET  /api/session/:id       - Session detail + intelligence")
	log.Printf("  POST /api/session/:id/end   - Terminate early, emit report")

	if err := app.Listen(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}

// ============================================================================
// CLI Mode
// ============================================================================

func runCLIScan(text string) {
	cfg := config.NewDefaultConfig()

	catalog := patterns.Default()
	if cfg.PatternCatalog != "" {
		loaded, err := patterns.Load(cfg.PatternCatalog)
		if err != nil {
			log.Fatalf("pattern catalog %s: %v", cfg.PatternCatalog, err)
		}
		catalog = loaded
	}

	result := detect.New(catalog).Detect(text)

	output, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(output))
}

// ============================================================================
// Demo Mode
// ============================================================================

// printPublisher satisfies honeypot.Publisher for demo runs: the final result
// goes to stdout instead of a webhook.
type printPublisher struct{}

func (printPublisher) Publish(_ context.Context, result callback.Result) error {
	output, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println("\n=== Final Result ===")
	fmt.Println(string(output))
	return nil
}

// runDemo plays a scripted scammer against a fully wired in-memory honeypot
// and prints the exchange.
func runDemo(scamType string) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	scammer, err := simulator.New(scamType, rng)
	if err != nil {
		fmt.Printf("%v\n\nKnown scam types:\n", err)
		for _, st := range simulator.ScamTypes() {
			fmt.Printf("  %s\n", st)
		}
		os.Exit(1)
	}

	registry := session.NewMemoryStore()
	defer registry.Close()

	trap := honeypot.New(registry,
		honeypot.WithPublisher(printPublisher{}),
		honeypot.WithTypingDelay(0, 0),
		honeypot.WithRand(rng),
	)

	ctx := context.Background()
	sessionID := uuid.NewString()

	fmt.Printf("=== Honeytrap demo: %s (session %s) ===\n\n", scamType, sessionID)

	msg := scammer.Opening()
	for i := 0; i < 12; i++ {
		fmt.Printf("scammer> %s\n", msg)

		turn, err := trap.HandleMessage(ctx, sessionID, msg, time.Now())
		if err != nil {
			log.Fatalf("demo: %v", err)
		}
		fmt.Printf("persona> %s\n\n", turn.Reply)

		if turn.Ended {
			return
		}
		msg = scammer.Next()
	}

	// The script ran out before the honeypot let go; close out explicitly so
	// the report still prints.
	report, err := trap.EndSession(ctx, sessionID)
	if err != nil {
		log.Fatalf("demo: end session: %v", err)
	}
	output, _ := json.MarshalIndent(report, "", "  ")
	fmt.Println("=== Report ===")
	fmt.Println(string(output))
}
