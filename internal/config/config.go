package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/atomicstack/siyuan-tui/internal/app"
	"github.com/atomicstack/siyuan-tui/internal/layout"
	"github.com/atomicstack/siyuan-tui/internal/siyuan"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	// File is the config file that was read, empty when none was.
	File  string
	Flags map[string]string
	Args  []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envConfig        = "SIYUAN_TUI_CONFIG"
	envBaseURL       = "SIYUAN_TUI_BASE_URL"
	envToken         = "SIYUAN_TUI_TOKEN"
	envDBPath        = "SIYUAN_TUI_DB_PATH"
	envDebounceMS    = "SIYUAN_TUI_DEBOUNCE_MS"
	envSearchLimit   = "SIYUAN_TUI_SEARCH_LIMIT"
	envRequestsPerS  = "SIYUAN_TUI_REQUESTS_PER_SECOND"
	envWidth         = "SIYUAN_TUI_WIDTH"
	envHeight        = "SIYUAN_TUI_HEIGHT"
	envMarkdownStyle = "SIYUAN_TUI_MD_STYLE"
	envTrace         = "SIYUAN_TUI_TRACE"
	envLogFile       = "SIYUAN_TUI_LOG_FILE"
)

const (
	defaultDebounceMS        = 500
	defaultRequestsPerSecond = 5
)

// settings mirrors the TOML file. Decoding into a value seeded with the
// defaults leaves absent keys untouched.
type settings struct {
	BaseURL           string  `toml:"base_url"`
	Token             string  `toml:"token"`
	DBPath            string  `toml:"db_path"`
	DebounceMS        int     `toml:"debounce_ms"`
	SearchLimit       int     `toml:"search_limit"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Width             int     `toml:"width"`
	Height            int     `toml:"height"`
	MarkdownStyle     string  `toml:"markdown_style"`
	LogFile           string  `toml:"log_file"`
	Trace             bool    `toml:"trace"`
}

func defaults() settings {
	return settings{
		BaseURL:           siyuan.DefaultBaseURL,
		DebounceMS:        defaultDebounceMS,
		SearchLimit:       siyuan.DefaultSearchLimit,
		RequestsPerSecond: defaultRequestsPerSecond,
	}
}

// Load parses configuration from CLI arguments, environment variables and
// the config file.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Flags win over
// the environment, which wins over the config file, which wins over the
// defaults.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	path, explicit := configPath(args, env)
	base := defaults()
	read, err := readFile(path, explicit, &base)
	if err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("siyuan-tui", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	fs.String("config", path, "path to the TOML config file")
	baseURL := fs.String("base-url", envOrDefault(env, envBaseURL, base.BaseURL), "SiYuan kernel address")
	token := fs.String("token", envOrDefault(env, envToken, base.Token), "SiYuan API token")
	dbPath := fs.String("db", envOrDefault(env, envDBPath, base.DBPath), "read siyuan.db directly instead of the kernel API")
	debounceMS := fs.Int("debounce-ms", envOrInt(env, envDebounceMS, base.DebounceMS), "quiet period before a search is issued")
	limit := fs.Int("limit", envOrInt(env, envSearchLimit, base.SearchLimit), "maximum search results")
	rps := fs.Float64("rps", envOrFloat(env, envRequestsPerS, base.RequestsPerSecond), "kernel API requests per second (0 disables throttling)")
	width := fs.Int("width", envOrInt(env, envWidth, base.Width), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, base.Height), "desired viewport height in rows (0 uses terminal height)")
	style := fs.String("markdown-style", envOrDefault(env, envMarkdownStyle, base.MarkdownStyle), "markdown style: dark, light or notty (empty detects)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, base.Trace), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, base.LogFile), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		App: app.Config{
			BaseURL:           strings.TrimSpace(*baseURL),
			Token:             strings.TrimSpace(*token),
			DBPath:            strings.TrimSpace(*dbPath),
			Debounce:          time.Duration(*debounceMS) * time.Millisecond,
			SearchLimit:       *limit,
			RequestsPerSecond: *rps,
			Width:             *width,
			Height:            *height,
			MarkdownStyle:     strings.TrimSpace(*style),
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		File: read,
		Flags: map[string]string{
			"config":        read,
			"baseURL":       *baseURL,
			"db":            *dbPath,
			"debounceMS":    strconv.Itoa(*debounceMS),
			"limit":         strconv.Itoa(*limit),
			"rps":           strconv.FormatFloat(*rps, 'f', -1, 64),
			"width":         strconv.Itoa(*width),
			"height":        strconv.Itoa(*height),
			"markdownStyle": *style,
			"trace":         strconv.FormatBool(*trace),
			"logFile":       *logFile,
		},
		Args: append([]string(nil), args...),
	}
	if cfg.App.Token != "" {
		cfg.Flags["token"] = "<set>"
	}
	return cfg, nil
}

// configPath finds the config file before flags are parsed, since the file
// supplies the flag defaults. explicit is false for the default location.
func configPath(args []string, env map[string]string) (string, bool) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		name := strings.TrimLeft(arg, "-")
		if name == arg {
			continue
		}
		if v, ok := strings.CutPrefix(name, "config="); ok {
			return v, true
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1], true
		}
	}
	if v := strings.TrimSpace(env[envConfig]); v != "" {
		return v, true
	}
	dir := strings.TrimSpace(env["XDG_CONFIG_HOME"])
	if dir == "" {
		home := strings.TrimSpace(env["HOME"])
		if home == "" {
			return "", false
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "siyuan-tui", "config.toml"), false
}

// readFile decodes path over into. A missing file is only an error when it
// was asked for explicitly. It returns the path actually read.
func readFile(path string, explicit bool, into *settings) (string, error) {
	if path == "" {
		return "", nil
	}
	md, err := toml.DecodeFile(path, into)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return "", nil
		}
		return "", fmt.Errorf("config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return "", fmt.Errorf("config file %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return path, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrFloat(env map[string]string, key string, fallback float64) float64 {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate rejects settings the application cannot start with.
func Validate(cfg Config) error {
	a := cfg.App
	if a.Width < 0 {
		return fmt.Errorf("width must be >= 0 (got %d)", a.Width)
	}
	if a.Height < 0 {
		return fmt.Errorf("height must be >= 0 (got %d)", a.Height)
	}
	if a.Debounce <= 0 {
		return fmt.Errorf("debounce must be > 0 (got %s)", a.Debounce)
	}
	if a.SearchLimit <= 0 {
		return fmt.Errorf("search limit must be > 0 (got %d)", a.SearchLimit)
	}
	if a.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second must be >= 0 (got %g)", a.RequestsPerSecond)
	}
	switch a.MarkdownStyle {
	case "", layout.StyleDark, layout.StyleLight, layout.StylePlain:
	default:
		return fmt.Errorf("unknown markdown style %q", a.MarkdownStyle)
	}
	if a.DBPath != "" {
		return nil
	}
	u, err := url.Parse(a.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base url %q: %w", a.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base url %q: want http(s)://host[:port]", a.BaseURL)
	}
	return nil
}
