package display

import (
	"sync"

	"golang.org/x/net/html"
)

// Page holds the presentation tree once the host has mounted it.
type Page struct {
	mu   sync.Mutex
	root *html.Node
}

// Mount sets the presentation tree.
func (p *Page) Mount(root *html.Node) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.root = root
}

// Unmount forgets the presentation tree.
func (p *Page) Unmount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.root = nil
}

// Container returns the mounted tree when it holds a lyrics container.
func (p *Page) Container() (*html.Node, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.root == nil || FindContainer(p.root) == nil {
		return nil, false
	}
	return p.root, true
}
