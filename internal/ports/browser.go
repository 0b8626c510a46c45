package ports

// BrowserOpener hands a URL to the user's browser. Fire and forget; the
// authorization result comes back through the redirect callback.
type BrowserOpener interface {
	Open(url string) error
}
