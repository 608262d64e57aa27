package internal

// ServiceName namespaces keyring secrets, the config file and env variables.
const ServiceName = "charmglob"

type uiTheme struct {
	PrimaryColor   string
	SecondaryColor string
	ErrorColor     string
	TertiaryColor  string
	MatchColor     string
}

var Theme = uiTheme{
	PrimaryColor:   "75",      // Brighter blue
	SecondaryColor: "#ccc",    // Lighter gray for better readability
	ErrorColor:     "#FF5F5F", // Red for errors
	TertiaryColor:  "#666666", // Gray for hints
	MatchColor:     "#5FD787", // Green for matching candidates
}
