package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Harikishanth/HealBee-AI/internal/adapters/providers/nominatim"
	"github.com/Harikishanth/HealBee-AI/internal/adapters/providers/overpass"
	"github.com/Harikishanth/HealBee-AI/internal/application/services"
	"github.com/Harikishanth/HealBee-AI/internal/domain/entities"
	"github.com/Harikishanth/HealBee-AI/internal/infrastructure/observability"
	"github.com/Harikishanth/HealBee-AI/pkg/config"
	"github.com/Harikishanth/HealBee-AI/pkg/throttle"
)

type options struct {
	location   string
	lat        float64
	lon        float64
	useGPS     bool
	radius     int
	conditions []string
	limit      int
}

type output struct {
	Mode       string              `json:"mode"`
	Source     string              `json:"source,omitempty"`
	Hints      []string            `json:"hints,omitempty"`
	Count      int                 `json:"count"`
	Facilities []entities.Facility `json:"facilities"`
}

func parseOptions(args []string) (options, error) {
	var opts options
	var conditions string

	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.location, "location", "", "Free-text location, e.g. \"Velachery\"")
	fs.Float64Var(&opts.lat, "lat", 0, "Latitude for a GPS search")
	fs.Float64Var(&opts.lon, "lon", 0, "Longitude for a GPS search")
	fs.IntVar(&opts.radius, "radius", 0, "Search radius in meters for a GPS search")
	fs.StringVar(&conditions, "conditions", "", "Comma-separated conditions used to rank GPS results")
	fs.IntVar(&opts.limit, "limit", 0, "Maximum GPS results")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["lat"] != set["lon"] {
		return options{}, errors.New("-lat and -lon must be given together")
	}
	opts.useGPS = set["lat"] && set["lon"]
	opts.location = strings.TrimSpace(opts.location)

	if !opts.useGPS && opts.location == "" {
		return options{}, errors.New("either -location or -lat/-lon is required")
	}
	if opts.useGPS && opts.location != "" {
		return options{}, errors.New("-location cannot be combined with -lat/-lon")
	}

	for _, c := range strings.Split(conditions, ",") {
		if c = strings.TrimSpace(c); c != "" {
			opts.conditions = append(opts.conditions, c)
		}
	}
	return opts, nil
}

func run(ctx context.Context, locator *services.FacilityLocatorService, opts options, w io.Writer) error {
	var out output
	if opts.useGPS {
		var hints []string
		if len(opts.conditions) > 0 {
			hints = locator.HintsFor(opts.conditions)
		}
		facilities := locator.SearchByGPS(ctx, services.GPSQuery{
			Latitude:     opts.lat,
			Longitude:    opts.lon,
			RadiusMeters: opts.radius,
			Hints:        hints,
			Limit:        opts.limit,
		})
		out = output{Mode: "gps", Hints: hints, Count: len(facilities), Facilities: facilities}
	} else {
		result := locator.Locate(ctx, opts.location)
		out = output{Mode: "location", Source: result.Source, Count: len(result.Facilities), Facilities: result.Facilities}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "lookup:", err)
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "lookup: failed to load config:", err)
		os.Exit(1)
	}

	observability.InitLoggerWithWriter(cfg.OTEL.ServiceName, cfg.Log.Env, os.Stderr)
	observability.SetLevel(cfg.Log.Level)

	geocoder := nominatim.NewProviderWithOptions(cfg.Nominatim.BaseURL, cfg.Nominatim.UserAgent, &http.Client{Timeout: cfg.Nominatim.Timeout()})
	pois := overpass.NewProviderWithOptions(cfg.Overpass.BaseURL, cfg.Overpass.UserAgent, cfg.Overpass.QueryTimeoutSeconds, &http.Client{Timeout: cfg.Overpass.Timeout()})

	pacer := throttle.NewPacer(cfg.Search.MinRequestInterval())
	log.Info().Dur("min_request_interval", pacer.Interval()).Msg("upstream pacing configured")
	resolver := services.NewLocationResolver(geocoder, pacer, cfg.Nominatim.Timeout(), nil)
	engine := services.NewFacilityQueryEngine(pois, geocoder, services.QueryEngineOptions{
		MinRadiusMeters:   cfg.Search.MinRadiusMeters,
		MaxRadiusMeters:   cfg.Search.MaxRadiusMeters,
		ProximityTimeout:  cfg.Overpass.Timeout(),
		TextSearchTimeout: cfg.Nominatim.Timeout(),
		Pacer:             pacer,
	})
	locator := services.NewFacilityLocatorService(resolver, engine, services.NewConditionHints(), services.LocatorOptions{
		LocationRadiusMeters:   cfg.Search.LocationRadiusMeters,
		LocationCandidateLimit: cfg.Search.LocationCandidateLimit,
		FallbackPerTierLimit:   cfg.Search.FallbackPerTierLimit,
		FallbackResultLimit:    cfg.Search.FallbackResultLimit,
		GPSRadiusMeters:        cfg.Search.GPSRadiusMeters,
		GPSResultLimit:         cfg.Search.GPSResultLimit,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, locator, opts, os.Stdout); err != nil {
		log.Error().Err(err).Msg("failed to write results")
		os.Exit(1)
	}
}
