package config

// SourceKind identifies how a source's payload is parsed.
type SourceKind string

const (
	KindLeetCode   SourceKind = "leetcode"
	KindCodeforces SourceKind = "codeforces"
	KindJSON       SourceKind = "json"
)

// Config is the top-level statboard configuration, corresponding to .statboard.yml.
type Config struct {
	// Handle is used by every source that does not set its own.
	Handle          string         `yaml:"handle" koanf:"handle"`
	Timeout         string         `yaml:"timeout" koanf:"timeout"`
	RefreshInterval string         `yaml:"refresh_interval" koanf:"refresh_interval"`
	Port            int            `yaml:"port" koanf:"port"`
	UserAgent       string         `yaml:"user_agent" koanf:"user_agent"`
	AllowAllOrigins bool           `yaml:"allow_all_origins,omitempty" koanf:"allow_all_origins"`
	Title           string         `yaml:"title" koanf:"title"`
	// Intro is Markdown shown above the board on the HTML page.
	Intro           string         `yaml:"intro,omitempty" koanf:"intro"`
	Webhooks        []string       `yaml:"webhooks" koanf:"webhooks"`
	Sources         []SourceConfig `yaml:"sources" koanf:"sources"`
}

// SourceConfig describes one external statistics provider.
type SourceConfig struct {
	Name         string     `yaml:"name" koanf:"name"`
	Kind         SourceKind `yaml:"kind" koanf:"kind"`
	Handle       string     `yaml:"handle,omitempty" koanf:"handle"`
	BaseURL      string     `yaml:"base_url,omitempty" koanf:"base_url"`
	RateLimitRPM int        `yaml:"rate_limit_rpm,omitempty" koanf:"rate_limit_rpm"`
	Disabled     bool       `yaml:"disabled,omitempty" koanf:"disabled"`

	// Only used by the json kind. Paths use gjson syntax.
	Endpoint     string            `yaml:"endpoint,omitempty" koanf:"endpoint"`
	StatusPath   string            `yaml:"status_path,omitempty" koanf:"status_path"`
	SuccessValue string            `yaml:"success_value,omitempty" koanf:"success_value"`
	MessagePath  string            `yaml:"message_path,omitempty" koanf:"message_path"`
	Fields       map[string]string `yaml:"fields,omitempty" koanf:"fields"`
}
