package config

// DefaultBrowseLanguages mirrors the language choices offered in the browse
// sidebar. Codes are matched as case-insensitive substrings of the catalog's
// language field, so "ml" matches "Malayalam".
var DefaultBrowseLanguages = []BrowseLanguage{
	{Label: "English Movies", Code: "en"},
	{Label: "Hindi Movies", Code: "hi"},
	{Label: "Telugu Movies", Code: "te"},
	{Label: "Tamil Movies", Code: "ta"},
	{Label: "Marathi Movies", Code: "mr"},
	{Label: "Malayalam Movies", Code: "ml"},
	{Label: "Kannada Movies", Code: "kn"},
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Bundle.Path == "" {
		cfg.Bundle.Path = "/usr/local/var/movierec/data/movies.bundle"
	}
	if cfg.Metadata.BaseURL == "" {
		cfg.Metadata.BaseURL = "https://www.omdbapi.com/"
	}
	if cfg.Metadata.TimeoutSeconds == 0 {
		cfg.Metadata.TimeoutSeconds = 5
	}
	if cfg.Metadata.CachePath == "" {
		cfg.Metadata.CachePath = "/usr/local/var/movierec/data/db/metadata.db"
	}
	if cfg.Metadata.CacheTTLHours == 0 {
		cfg.Metadata.CacheTTLHours = 168
	}
	if cfg.Metadata.FetchConcurrency == 0 {
		cfg.Metadata.FetchConcurrency = 4
	}
	if cfg.Search.MaxCandidates == 0 {
		cfg.Search.MaxCandidates = 5
	}
	if cfg.Search.MinSimilarity == 0 {
		cfg.Search.MinSimilarity = 0.6
	}
	if cfg.Search.KeywordTitleBoost == 0 {
		cfg.Search.KeywordTitleBoost = 3.0
	}
	if len(cfg.Browse.Languages) == 0 {
		cfg.Browse.Languages = append([]BrowseLanguage(nil), DefaultBrowseLanguages...)
	}
	if cfg.Browse.PopularLimit == 0 {
		cfg.Browse.PopularLimit = 15
	}
	if cfg.Browse.FeaturedPerLanguage == 0 {
		cfg.Browse.FeaturedPerLanguage = 3
	}
	if cfg.Browse.FeaturedTotal == 0 {
		cfg.Browse.FeaturedTotal = 12
	}
}
