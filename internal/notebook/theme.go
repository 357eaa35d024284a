package notebook

// Font is a plain value descriptor; the terminal decides what it can honor.
type Font struct {
	Family string `json:"family" toml:"family"`
	Size   int    `json:"size" toml:"size"`
}

// Theme carries the color palette as hex strings so it can live in config
// without importing any styling package.
type Theme struct {
	Name       string `json:"name" toml:"name"`
	Accent     string `json:"accent" toml:"accent"`
	Muted      string `json:"muted" toml:"muted"`
	ErrorColor string `json:"error" toml:"error"`
	Highlight  string `json:"highlight" toml:"highlight"`
	Border     string `json:"border" toml:"border"`
}

// DefaultTheme matches the shipped dark palette.
func DefaultTheme() Theme {
	return Theme{
		Name:       "dark",
		Accent:     "#7D56F4",
		Muted:      "#7D7A85",
		ErrorColor: "#dc2626",
		Highlight:  "#FFB454",
		Border:     "#5E6472",
	}
}

// DefaultFont is used when config does not specify one.
func DefaultFont() Font {
	return Font{Family: "monospace", Size: 13}
}
