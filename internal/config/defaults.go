package config

import "time"

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultTestPath is the default test path
	DefaultTestPath = "."
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "narrtest-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = "storage"
	// DefaultProcessors is the default number of files run at once
	DefaultProcessors = 1
	// DefaultEvaluator is the default evaluator kind
	DefaultEvaluator = "go"
	// DefaultSQLDriver is used when the SQL evaluator has no driver configured
	DefaultSQLDriver = "sqlite"
	// DefaultSQLDSN is an in-memory sqlite database
	DefaultSQLDSN = ":memory:"
	// DefaultTimeout disables the per-test timeout
	DefaultTimeout time.Duration = 0
	// ProjectFile is the YAML project file read from the project path
	ProjectFile = ".narrtest.yaml"
	// EnvFile is the dotenv file read from the project path
	EnvFile = ".env"
)

// DefaultExtensions are the file extensions a directory expands to
var DefaultExtensions = []string{".md"}

// DefaultMarkdownExtensions are parsed as documents; everything else as source
var DefaultMarkdownExtensions = []string{".md", ".markdown"}

// DefaultSyntaxes maps source extensions to their marker syntax
var DefaultSyntaxes = map[string]string{
	".jl":  "hash",
	".py":  "hash",
	".sh":  "hash",
	".rb":  "hash",
	".go":  "slash",
	".js":  "slash",
	".c":   "slash",
	".sql": "dash",
}

// DefaultGoImports are imported into every Go session
var DefaultGoImports = []string{"fmt"}

// DefaultPathsToIgnore are the default directories to ignore when scanning for tests
var DefaultPathsToIgnore = []string{
	"vendor",
	"node_modules",
	"storage",
	"testdata",
}
