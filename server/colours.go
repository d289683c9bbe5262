package server

import "fmt"

const (
	colourGet     = "\033[32m"
	colourPost    = "\033[34m"
	colourOptions = "\033[35m"
	colourOther   = "\033[90m"
	colourReset   = "\033[0m"
)

// colourMethod pads an HTTP method and wraps it in its terminal colour.
func colourMethod(method string) string {
	colour := colourOther
	switch method {
	case "GET":
		colour = colourGet
	case "POST":
		colour = colourPost
	case "OPTIONS":
		colour = colourOptions
	}
	return colour + fmt.Sprintf(" %-7s", method) + colourReset
}
