// Package config provides configuration loading and defaults for autoscout.
package config

import "time"

// DefaultConfigDir is the default location for autoscout configuration.
const DefaultConfigDir = "~/.config/autoscout"

// DefaultDBName is the filename for the SQLite run history database.
const DefaultDBName = "autoscout.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// EnvPrefix is the prefix for environment variable overrides
// (e.g. AUTOSCOUT_THRESHOLD=0.4).
const EnvPrefix = "AUTOSCOUT"

// DefaultThreshold is the minimum final score a pairing must exceed to be
// reported.
const DefaultThreshold = 0.3

// DefaultTopN is the number of records kept in the executive summary.
const DefaultTopN = 5

// DefaultWorkers is the number of pair-scoring workers. One means sequential.
const DefaultWorkers = 1

// DefaultWeights holds the final score weights.
var DefaultWeights = Weights{
	Semantic:   0.4,
	Automation: 0.4,
	Business:   0.2,
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 100,
}

// DefaultWatch holds the default watch mode settings.
var DefaultWatch = Watch{
	Debounce: 2 * time.Second,
}

// DefaultSnippetExtensions are the file extensions read from a snippet directory.
var DefaultSnippetExtensions = []string{".py", ".go", ".js", ".ts", ".sh", ".rb", ".ps1", ".sql"}

// DefaultCategoryMap maps top-level snippet directory names to candidate
// categories. Directories not listed use their own name.
var DefaultCategoryMap = map[string]string{}

// DefaultVocabulary holds the built-in keyword tables. The vocabulary is
// bilingual (English and Portuguese) because the boards it was tuned on mix
// both languages.
var DefaultVocabulary = Vocabulary{
	StopWords: []string{
		"de", "da", "do", "para", "com", "em", "na", "no", "a", "o", "e", "que", "se", "por",
		"the", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with", "by",
	},
	Urgency: []string{
		"urgent", "importante", "crítico", "critical", "priority", "alta",
	},
	Automation: []string{
		"api", "integração", "automação", "script", "bot", "webhook",
		"sync", "import", "export", "process", "generate", "update",
		"automatizar", "conectar", "sincronizar", "processar",
	},
	Cadence: []string{
		"daily", "weekly", "monthly", "regular", "routine", "diário", "semanal", "mensal",
	},
	HighValue: []string{
		"receita", "vendas", "cliente", "produtividade", "eficiência",
		"revenue", "sales", "customer", "productivity", "efficiency",
		"roi", "lucro", "economia", "otimização",
	},
	Integration: []string{
		"requests", "api", "http", "json", "oauth", "token",
	},
	ImportPrefixes: []string{
		"import ", "from ", "require ", "#include ", "using ",
	},
	DeclarationMarkers: []string{
		"def ", "class ", "func ", "type ", "function ", "interface ", "struct ",
	},
	TagKeywords: map[string][]string{
		"API_INTEGRATION":   {"requests", "api", "http", "rest"},
		"DATA_PROCESSING":   {"pandas", "numpy", "data", "csv", "json"},
		"AI_INTEGRATION":    {"openai", "gpt", "ai", "machine learning"},
		"TRELLO_AUTOMATION": {"trello", "card", "board", "list"},
		"GOVERNMENT_APIS":   {"government", "gov", "receita", "ibge"},
		"WEBHOOK_HANDLER":   {"webhook", "event", "trigger", "callback"},
		"ASYNC_PROCESSING":  {"async", "await", "asyncio", "aiohttp"},
	},
	CompatibilityKeywords: map[string][]string{
		"API_INTEGRATION":   {"api", "integração", "conectar", "sincronizar"},
		"DATA_PROCESSING":   {"dados", "relatório", "análise", "processamento"},
		"AI_INTEGRATION":    {"ia", "inteligência", "automático", "gpt", "ai"},
		"TRELLO_AUTOMATION": {"trello", "card", "lista", "board", "kanban"},
		"GOVERNMENT_APIS":   {"governo", "receita", "cnpj", "cep", "ibge"},
		"WEBHOOK_HANDLER":   {"webhook", "notificação", "evento", "trigger"},
		"ASYNC_PROCESSING":  {"processamento", "batch", "assíncrono", "paralelo"},
	},
}
