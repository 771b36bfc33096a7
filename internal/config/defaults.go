package config

// DefaultHandle is the profile queried when nothing else is configured.
const DefaultHandle = "aryankumarrai"

// DefaultSources returns the two providers shown on the original page.
func DefaultSources() []SourceConfig {
	return []SourceConfig{
		{Name: "leetcode", Kind: KindLeetCode},
		{Name: "codeforces", Kind: KindCodeforces, RateLimitRPM: 30},
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Handle:          DefaultHandle,
		Timeout:         "10s",
		RefreshInterval: "15m",
		Port:            8080,
		UserAgent:       "statboard",
		Title:           "Coding Stats",
		Intro:           "Problems solved across my competitive programming profiles.",
		Sources:         DefaultSources(),
	}
}
