package auth

import (
	"github.com/pkg/browser"
)

// DefaultBrowserOpener implements BrowserOpener using the browser package
type DefaultBrowserOpener struct{}

// OpenURL opens the URL in the user's default browser
func (d *DefaultBrowserOpener) OpenURL(url string) error {
	return browser.OpenURL(url)
}

var _ BrowserOpener = (*DefaultBrowserOpener)(nil)
