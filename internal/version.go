package internal

var Version = "v0.1.0"
