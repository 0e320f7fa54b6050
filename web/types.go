package web

type ChatPageData struct {
	Version string
}
