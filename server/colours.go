package server

import "net/http"

// ANSI colours for the development console log.
const (
	green      = "\033[32m"
	blue       = "\033[34m"
	cyan       = "\033[36m"
	yellow     = "\033[33m"
	magenta    = "\033[35m"
	red        = "\033[31m"
	gray       = "\033[90m"
	resetColor = "\033[0m"
)

var methodColors = map[string]string{
	http.MethodGet:    green,
	http.MethodPost:   blue,
	http.MethodPut:    cyan,
	http.MethodDelete: yellow,
	http.MethodPatch:  magenta,
}

func methodColor(method string) string {
	if c, ok := methodColors[method]; ok {
		return c
	}
	return gray
}

func statusColor(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return red
	case status >= http.StatusBadRequest:
		return yellow
	default:
		return green
	}
}

func colourise(colour, text string) string {
	return colour + text + resetColor
}
