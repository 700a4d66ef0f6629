package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	TestPath    string

	// Discovery settings
	Extensions         []string
	MarkdownExtensions []string
	Syntaxes           map[string]string // extension -> marker syntax name
	PathsToIgnore      []string

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string

	// Execution settings
	Processors int
	Timeout    time.Duration

	// Evaluator settings
	Evaluator string
	GoPath    string
	GoImports []string
	SQLDriver string
	SQLDSN    string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	Processors int
	Filter     string
	TestPath   string
	Evaluator  string
	Timeout    time.Duration
	FailFast   bool
	OnlyFailed bool
	NoProgress bool
	NoColor    bool
	Verbose    bool
	TestCases  bool
}

// projectFile is the layout of .narrtest.yaml
type projectFile struct {
	TestPath   string            `yaml:"test_path"`
	Extensions []string          `yaml:"extensions"`
	Markdown   []string          `yaml:"markdown"`
	Syntax     map[string]string `yaml:"syntax"`
	Ignore     []string          `yaml:"ignore"`
	Processors int               `yaml:"processors"`
	Timeout    time.Duration     `yaml:"timeout"`
	Output     string            `yaml:"output"`
	Evaluator  struct {
		Kind    string   `yaml:"kind"`
		GoPath  string   `yaml:"gopath"`
		Imports []string `yaml:"imports"`
		SQL     struct {
			Driver string `yaml:"driver"`
			DSN    string `yaml:"dsn"`
		} `yaml:"sql"`
	} `yaml:"evaluator"`
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:        DefaultProjectPath,
		TestPath:           DefaultTestPath,
		Extensions:         append([]string(nil), DefaultExtensions...),
		MarkdownExtensions: append([]string(nil), DefaultMarkdownExtensions...),
		Syntaxes:           make(map[string]string, len(DefaultSyntaxes)),
		OutputJSONFile:     DefaultOutputJSONFile,
		OutputJSONDir:      DefaultOutputJSONDir,
		Processors:         DefaultProcessors,
		Timeout:            DefaultTimeout,
		Evaluator:          DefaultEvaluator,
		GoImports:          append([]string(nil), DefaultGoImports...),
		Flags:              Flags{Processors: DefaultProcessors},
	}
	for ext, name := range DefaultSyntaxes {
		cfg.Syntaxes[ext] = name
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load creates a config for the project directory: defaults, then the
// project file, then the .env file, then flags.
func Load(projectPath string, flags Flags) (*Config, error) {
	cfg := New()
	if projectPath != "" {
		cfg.ProjectPath = projectPath
	}
	if err := cfg.LoadFile(filepath.Join(cfg.ProjectPath, ProjectFile)); err != nil {
		return nil, err
	}
	if err := cfg.LoadEnv(filepath.Join(cfg.ProjectPath, EnvFile)); err != nil {
		return nil, err
	}
	cfg.ApplyFlags(flags)
	return cfg, nil
}

// LoadFile applies a YAML project file. A missing file is not an error.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var pf projectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if pf.TestPath != "" {
		c.TestPath = pf.TestPath
	}
	if len(pf.Extensions) > 0 {
		c.Extensions = normalizeExtensions(pf.Extensions)
	}
	if len(pf.Markdown) > 0 {
		c.MarkdownExtensions = normalizeExtensions(pf.Markdown)
	}
	for ext, name := range pf.Syntax {
		c.Syntaxes[normalizeExtension(ext)] = name
	}
	if pf.Ignore != nil {
		c.PathsToIgnore = pf.Ignore
	}
	if pf.Processors > 0 {
		c.Processors = pf.Processors
	}
	if pf.Timeout > 0 {
		c.Timeout = pf.Timeout
	}
	if pf.Output != "" {
		c.OutputJSONDir, c.OutputJSONFile = filepath.Split(pf.Output)
	}
	if pf.Evaluator.Kind != "" {
		c.Evaluator = pf.Evaluator.Kind
	}
	if pf.Evaluator.GoPath != "" {
		c.GoPath = pf.Evaluator.GoPath
	}
	if len(pf.Evaluator.Imports) > 0 {
		c.GoImports = pf.Evaluator.Imports
	}
	if pf.Evaluator.SQL.Driver != "" {
		c.SQLDriver = pf.Evaluator.SQL.Driver
	}
	if pf.Evaluator.SQL.DSN != "" {
		c.SQLDSN = pf.Evaluator.SQL.DSN
	}
	return nil
}

// LoadEnv applies SQL settings from a dotenv file. A missing file is not an
// error. DB_HOST, DB_PORT, DB_USERNAME and DB_PASSWORD describe a MySQL
// server when no DSN is given explicitly.
func (c *Config) LoadEnv(path string) error {
	env, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if v := env["NARRTEST_SQL_DRIVER"]; v != "" {
		c.SQLDriver = v
	}
	if v := env["NARRTEST_SQL_DSN"]; v != "" {
		c.SQLDSN = v
		return nil
	}
	if env["DB_HOST"] == "" {
		return nil
	}
	if c.SQLDriver == "" {
		c.SQLDriver = "mysql"
	}
	c.SQLDSN = MySQLDSN(env["DB_HOST"], env["DB_PORT"], env["DB_USERNAME"], env["DB_PASSWORD"])
	return nil
}

// MySQLDSN builds a DSN for a server connection without a default database.
func MySQLDSN(host, port, user, password string) string {
	if port == "" {
		port = "3306"
	}
	if user == "" {
		user = "root"
	}
	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(host, port)
	return cfg.FormatDSN()
}

// ApplyFlags overrides settings with non-zero flags
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	if flags.Processors > 0 {
		c.Processors = flags.Processors
	}
	if flags.Timeout > 0 {
		c.Timeout = flags.Timeout
	}
	if flags.Evaluator != "" {
		c.Evaluator = flags.Evaluator
	}
}

// GetTestPath returns the test path, using flag if provided
func (c *Config) GetTestPath() string {
	if c.Flags.TestPath != "" {
		// If TestPath is provided, make it relative to ProjectPath if it's not absolute
		if filepath.IsAbs(c.Flags.TestPath) {
			return c.Flags.TestPath
		}
		return filepath.Join(c.ProjectPath, c.Flags.TestPath)
	}

	// Default: combine project path and test path
	return filepath.Join(c.ProjectPath, c.TestPath)
}

// GetOutputPath returns the full path to the output JSON file.
// Resolves to an absolute path so run and failures always read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetSQLDriver returns the SQL driver, falling back to in-memory sqlite
func (c *Config) GetSQLDriver() string {
	if c.SQLDriver == "" {
		return DefaultSQLDriver
	}
	return c.SQLDriver
}

// GetSQLDSN returns the SQL DSN, falling back to in-memory sqlite
func (c *Config) GetSQLDSN() string {
	if c.SQLDSN == "" && c.GetSQLDriver() == DefaultSQLDriver {
		return DefaultSQLDSN
	}
	return c.SQLDSN
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		out = append(out, normalizeExtension(ext))
	}
	return out
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
