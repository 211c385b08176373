// Package mcpserver exposes shelter, hospital and symptom-guide lookups as MCP tools over stdio,
// so assistants can answer "where can I cool down nearby" with the same backend the TUI uses.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/shimteo/shimteo/internal/api"
	"github.com/shimteo/shimteo/internal/geo"
	"github.com/shimteo/shimteo/internal/i18n"
	"github.com/shimteo/shimteo/internal/logging"
	"github.com/shimteo/shimteo/internal/prefs"
	"github.com/shimteo/shimteo/internal/search"
	"github.com/shimteo/shimteo/internal/season"
	"github.com/shimteo/shimteo/internal/symptom"
)

// Backend is the API surface the tools call.
type Backend interface {
	search.ShelterSource
	symptom.QuestionSource
	symptom.GuideSource
	SheltersInBounds(ctx context.Context, b api.Bounds, season, facilityType string) ([]api.ShelterGroup, error)
	NearbyHospitals(ctx context.Context, lat, lon float64, radiusM int) ([]api.HospitalGroup, error)
	SearchHospitals(ctx context.Context, keyword string, page, size int) (api.Page[api.HospitalSearchItem], error)
}

// Server wires the tools to a backend and the stored preferences.
type Server struct {
	backend  Backend
	prefs    *prefs.Store
	details  *search.Manager
	catalog  *symptom.Catalog
	resolver *symptom.Resolver
	logger   logging.Logger
	mcp      *server.MCPServer
}

// New builds the MCP server and registers every tool.
func New(b Backend, store *prefs.Store, version string, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop{}
	}
	if store == nil {
		store = prefs.New()
	}
	overrides, err := symptom.BuiltinOverrides()
	if err != nil {
		logger.Warn("mcp", "guide overrides unavailable", map[string]interface{}{"error": err})
	}

	s := &Server{
		backend:  b,
		prefs:    store,
		details:  search.New(b, store, search.WithLogger(logger)),
		catalog:  symptom.NewCatalog(b),
		resolver: symptom.NewResolver(b, overrides),
		logger:   logger,
		mcp: server.NewMCPServer("shimteo", version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
	}
	s.registerTools()
	return s
}

// MCP returns the underlying server, mainly for in-process clients and tests.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// ServeStdio blocks serving JSON-RPC on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.logger.Info("mcp", "serving on stdio", nil)
	return server.ServeStdio(s.mcp)
}

func seasonArg() mcp.ToolOption {
	return mcp.WithString("season",
		mcp.Description("HEAT or COLD. Defaults to the season in the stored settings."),
		mcp.Enum(string(season.Heat), string(season.Cold)),
	)
}

func languageArg() mcp.ToolOption {
	return mcp.WithString("language",
		mcp.Description("Language code (ko, en, ja, vi, zh). Defaults to the stored language."),
		mcp.Enum(i18n.Supported...),
	)
}

func generalOnlyArg() mcp.ToolOption {
	return mcp.WithBoolean("general_only",
		mcp.Description("Exclude senior-only facilities. Defaults to the stored setting."),
	)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("search_shelters",
		mcp.WithDescription("Search climate shelters by name or address keyword."),
		mcp.WithString("keyword", mcp.Required(), mcp.Description("Name or address fragment")),
		seasonArg(),
		mcp.WithNumber("page", mcp.Description("Zero-based page number")),
		generalOnlyArg(),
	), s.searchShelters)

	s.mcp.AddTool(mcp.NewTool("shelter_detail",
		mcp.WithDescription("Get address, phone, hours and capacity of one shelter."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Shelter id from search results")),
		seasonArg(),
	), s.shelterDetail)

	s.mcp.AddTool(mcp.NewTool("shelters_in_area",
		mcp.WithDescription("List shelters around a coordinate, grouped by location."),
		mcp.WithNumber("lat", mcp.Required()),
		mcp.WithNumber("lon", mcp.Required()),
		seasonArg(),
		generalOnlyArg(),
	), s.sheltersInArea)

	s.mcp.AddTool(mcp.NewTool("nearby_hospitals",
		mcp.WithDescription("List hospitals around a coordinate, grouped by location."),
		mcp.WithNumber("lat", mcp.Required()),
		mcp.WithNumber("lon", mcp.Required()),
		mcp.WithNumber("radius_m", mcp.Description("Search radius in meters (default 2000)")),
	), s.nearbyHospitals)

	s.mcp.AddTool(mcp.NewTool("search_hospitals",
		mcp.WithDescription("Search hospitals by name keyword."),
		mcp.WithString("keyword", mcp.Required()),
		mcp.WithNumber("page", mcp.Description("Zero-based page number")),
	), s.searchHospitals)

	s.mcp.AddTool(mcp.NewTool("symptom_questions",
		mcp.WithDescription("List the self-assessment questions for a season, in order."),
		seasonArg(),
		languageArg(),
	), s.symptomQuestions)

	s.mcp.AddTool(mcp.NewTool("season_guides",
		mcp.WithDescription("Get the general illness guides (symptoms and advice) for a season."),
		seasonArg(),
		languageArg(),
	), s.seasonGuides)
}

// season resolves the season argument, falling back to the stored preference.
func (s *Server) season(req mcp.CallToolRequest) (season.Type, error) {
	raw := req.GetString("season", "")
	if raw == "" {
		return s.prefs.Season(), nil
	}
	return season.Parse(raw)
}

func (s *Server) language(req mcp.CallToolRequest) (string, error) {
	lang := req.GetString("language", "")
	if lang == "" {
		return s.prefs.Language(), nil
	}
	if !i18n.IsSupported(lang) {
		return "", fmt.Errorf("unsupported language %q", lang)
	}
	return lang, nil
}

func (s *Server) facilityType(req mcp.CallToolRequest) string {
	if req.GetBool("general_only", !s.prefs.Snapshot().ShowSeniorFacilities) {
		return api.ShelterTypeGeneral
	}
	return ""
}

func (s *Server) searchShelters(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keyword, err := req.RequireString("keyword")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sn, err := s.season(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	page, err := s.backend.SearchShelters(ctx, api.ShelterQuery{
		Keyword: keyword,
		Season:  string(sn),
		Type:    s.facilityType(req),
		Page:    req.GetInt("page", 0),
		Size:    api.DefaultPageSize,
	})
	if err != nil {
		return s.toolError("search shelters", err), nil
	}
	return jsonResult(page)
}

func (s *Server) shelterDetail(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sn, err := s.season(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.details.Detail(ctx, int64(id), sn)
	if err != nil {
		return s.toolError("shelter detail", err), nil
	}
	return jsonResult(detail)
}

func (s *Server) sheltersInArea(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := point(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sn, err := s.season(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	groups, err := s.backend.SheltersInBounds(ctx, geo.Bounds(p, geo.DefaultDelta), string(sn), s.facilityType(req))
	if err != nil {
		return s.toolError("shelters in area", err), nil
	}
	return jsonResult(groups)
}

func (s *Server) nearbyHospitals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := point(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	radius := req.GetInt("radius_m", api.DefaultHospitalRadius)
	if radius <= 0 {
		return mcp.NewToolResultError("radius_m must be positive"), nil
	}
	groups, err := s.backend.NearbyHospitals(ctx, p.Lat, p.Lon, radius)
	if err != nil {
		return s.toolError("nearby hospitals", err), nil
	}
	return jsonResult(groups)
}

func (s *Server) searchHospitals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keyword, err := req.RequireString("keyword")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	page, err := s.backend.SearchHospitals(ctx, keyword, req.GetInt("page", 0), api.DefaultPageSize)
	if err != nil {
		return s.toolError("search hospitals", err), nil
	}
	return jsonResult(page)
}

func (s *Server) symptomQuestions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sn, err := s.season(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	lang, err := s.language(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	qs, err := s.catalog.Fetch(ctx, sn, lang)
	if err != nil {
		return s.toolError("symptom questions", err), nil
	}
	return jsonResult(qs)
}

func (s *Server) seasonGuides(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sn, err := s.season(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	lang, err := s.language(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	g, err := s.resolver.Resolve(ctx, symptom.GuidelineRequest{Season: sn, Language: lang})
	if err != nil {
		return s.toolError("season guides", err), nil
	}
	return jsonResult(g.Entries)
}

func (s *Server) toolError(op string, err error) *mcp.CallToolResult {
	s.logger.Warn("mcp", op+" failed", map[string]interface{}{"error": err})
	return mcp.NewToolResultErrorFromErr(op+" failed", err)
}

func point(req mcp.CallToolRequest) (geo.Point, error) {
	lat, err := req.RequireFloat("lat")
	if err != nil {
		return geo.Point{}, err
	}
	lon, err := req.RequireFloat("lon")
	if err != nil {
		return geo.Point{}, err
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return geo.Point{}, fmt.Errorf("coordinate out of range: %v,%v", lat, lon)
	}
	return geo.Point{Lat: lat, Lon: lon}, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
