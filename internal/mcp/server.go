// Package mcp exposes the coaching pipeline as MCP tools over stdio so
// agent frameworks can ask for compliant rewrites, policy checks, and
// redaction without shelling out.
package mcp

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/complyops/draftcoach/internal/coach"
	"github.com/complyops/draftcoach/internal/denylist"
	"github.com/complyops/draftcoach/internal/policy"
	"github.com/complyops/draftcoach/internal/provider"
)

// Config holds MCP server configuration.
type Config struct {
	CatalogPath   string
	DenylistPath  string
	ProvidersPath string

	// Watch hot-reloads the catalog file while the server runs.
	Watch bool

	// Rand seeds the variety step; nil uses the default source.
	Rand *rand.Rand
}

// Server wraps the MCP SDK server around the coaching pipeline. The matcher
// and coach are swapped atomically on catalog reload; everything else is
// read-only after construction.
type Server struct {
	mcpServer *mcpsdk.Server
	dl        *denylist.Denylist
	chain     *provider.Chain

	catalogPath string
	watch       bool
	rand        *rand.Rand

	mu      sync.RWMutex
	matcher *policy.Matcher
	coach   *coach.Coach
}

// New loads the catalog, denylist, and provider chain and registers tools.
func New(cfg Config) (*Server, error) {
	catalog, err := policy.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load policy catalog: %w", err)
	}

	dl, err := denylist.Load(cfg.DenylistPath)
	if err != nil {
		return nil, fmt.Errorf("load denylist: %w", err)
	}

	chainCfg, err := provider.LoadChainConfig(cfg.ProvidersPath)
	if err != nil {
		return nil, fmt.Errorf("load provider config: %w", err)
	}
	chain, err := provider.NewChain(chainCfg)
	if err != nil {
		return nil, err
	}

	s := &Server{
		dl:          dl,
		chain:       chain,
		catalogPath: cfg.CatalogPath,
		watch:       cfg.Watch,
		rand:        cfg.Rand,
	}
	if err := s.swapMatcher(policy.NewMatcher(catalog)); err != nil {
		return nil, err
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "draftcoach",
			Version: "0.1.0",
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// swapMatcher installs a new matcher and a coach compiled against it.
func (s *Server) swapMatcher(m *policy.Matcher) error {
	c, err := coach.New(coach.Config{
		Matcher:  m,
		Chain:    s.chain,
		Denylist: s.dl,
		Rand:     s.rand,
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.matcher = m
	s.coach = c
	s.mu.Unlock()
	return nil
}

func (s *Server) currentMatcher() *policy.Matcher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matcher
}

func (s *Server) currentCoach() *coach.Coach {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coach
}

// Run starts the MCP server on stdio transport. Blocks until ctx is
// cancelled. With Watch enabled the catalog file is hot-reloaded.
func (s *Server) Run(ctx context.Context) error {
	if s.watch && s.catalogPath != "" {
		w, err := policy.NewWatcher(s.catalogPath, func(m *policy.Matcher) {
			if err := s.swapMatcher(m); err != nil {
				fmt.Fprintf(os.Stderr, "catalog reload rejected: %v\n", err)
			}
		})
		if err != nil {
			return err
		}
		go func() { _ = w.Run(ctx) }()
	}

	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// registerTools adds the coaching tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "draftcoach_suggest",
		Description: "Rewrite a risky support-agent draft into a compliant reply. Returns a primary suggestion, two alternates, rationale, and the policy ids addressed.",
	}, s.handleSuggest)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "draftcoach_check",
		Description: "Scan text against the compliance policy catalog without rewriting it. Returns every policy hit with its location.",
	}, s.handleCheck)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "draftcoach_redact",
		Description: "Redact SSNs and account numbers from text with reversible placeholders. Returns the redacted text and the placeholder mapping.",
	}, s.handleRedact)
}
