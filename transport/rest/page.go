package rest

import "embed"

//go:embed static/index.html
var static embed.FS

type pageData struct {
	SocketPort string
}
