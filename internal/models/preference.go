package models

// Preference keys and values stored per visitor.
const (
	PreferenceTheme = "theme"

	ThemeLight = "light"
	ThemeDark  = "dark"
)
