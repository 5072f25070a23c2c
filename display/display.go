// Package display switches a rendered lyrics presentation between original
// and romanized text.
package display

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"langromanizer/errors"
	"langromanizer/model"
)

const (
	// ContainerClassPrefix is the class prefix of the host's lyrics container.
	ContainerClassPrefix = "_lyricsText"
	// ContainerAttr marks a lyrics container explicitly.
	ContainerAttr = "data-lyrics-container"
	// StateAttr holds the representation a split line currently shows.
	StateAttr = "data-romanize-state"
	// AltAttr marks the hidden node holding the other representation.
	AltAttr = "data-romanize-alt"
)

// MapSource provides the romanization map of the current track.
type MapSource interface {
	CurrentMap() (model.RomanizationMap, bool)
}

// Controller holds the DisplayState and applies it to a presentation tree.
// Apply calls are serialized; the tree must not be mutated elsewhere while
// one runs.
type Controller struct {
	maps   MapSource
	logger *slog.Logger

	mu    sync.Mutex
	state model.DisplayState
}

// NewController creates a Controller showing the original text.
func NewController(maps MapSource, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		maps:   maps,
		logger: logger.With("component", "display"),
		state:  model.Original,
	}
}

// State returns the current DisplayState.
func (c *Controller) State() model.DisplayState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ResetForTrack puts the controller back to Original for a new track.
func (c *Controller) ResetForTrack() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = model.Original
}

// Toggle applies the opposite of the current state.
func (c *Controller) Toggle(root *html.Node) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apply(root, c.state.Toggle())
}

// Apply makes every line of the lyrics container under root show target.
// Without a romanization map it does nothing. A missing container returns
// PresentationNotFound and leaves the state unchanged.
func (c *Controller) Apply(root *html.Node, target model.DisplayState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apply(root, target)
}

func (c *Controller) apply(root *html.Node, target model.DisplayState) error {
	m, ok := c.maps.CurrentMap()
	if !ok {
		c.logger.Info("no romanization available, nothing to toggle")
		return nil
	}

	container := FindContainer(root)
	if container == nil {
		err := errors.PresentationNotFound("lyrics container not mounted")
		c.logger.Warn("cannot apply display state", "target", target, "error", err)
		return err
	}

	var switched int
	for _, line := range lineNodes(container) {
		if applyLine(line, m, target) {
			switched++
		}
	}
	c.state = target
	c.logger.Debug("display state applied", "state", target, "lines", switched)
	return nil
}

// applyLine brings one line node to target and reports whether the line
// has two representations.
func applyLine(n *html.Node, m model.RomanizationMap, target model.DisplayState) bool {
	if _, ok := getAttr(n, StateAttr); ok {
		if alt := altNode(n); alt != nil {
			swapTo(n, alt, target)
			return true
		}
	}

	text := visibleTextNode(n)
	if text == nil {
		return false
	}
	original, romanized, ok := strings.Cut(text.Data, model.Separator)
	if !ok {
		romanized, ok = m.Lookup(text.Data)
		if !ok {
			return false
		}
		original = text.Data
	}
	split(n, text, original, romanized, target)
	return true
}

// split turns a plain line node into visible text plus a hidden alt node.
func split(n, text *html.Node, original, romanized string, target model.DisplayState) {
	visible, hidden := original, romanized
	if target == model.Romanized {
		visible, hidden = romanized, original
	}
	text.Data = visible

	alt := &html.Node{
		Type: html.ElementNode,
		Data: "span",
		Attr: []html.Attribute{{Key: AltAttr}, {Key: "hidden"}},
	}
	alt.AppendChild(&html.Node{Type: html.TextNode, Data: hidden})
	n.InsertBefore(alt, text.NextSibling)
	setAttr(n, StateAttr, target.String())
}

// swapTo exchanges visible and hidden text when the line shows the other
// representation.
func swapTo(n, alt *html.Node, target model.DisplayState) {
	if state, _ := getAttr(n, StateAttr); state == target.String() {
		return
	}
	text := visibleTextNode(n)
	if text == nil {
		text = &html.Node{Type: html.TextNode}
		n.InsertBefore(text, alt)
	}
	hidden := alt.FirstChild
	if hidden == nil || hidden.Type != html.TextNode {
		hidden = &html.Node{Type: html.TextNode}
		alt.InsertBefore(hidden, alt.FirstChild)
	}
	text.Data, hidden.Data = hidden.Data, text.Data
	setAttr(n, StateAttr, target.String())
}

// FindContainer returns the first lyrics container under root, or nil.
func FindContainer(root *html.Node) *html.Node {
	if root == nil {
		return nil
	}
	if isContainer(root) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := FindContainer(c); found != nil {
			return found
		}
	}
	return nil
}

func isContainer(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if _, ok := getAttr(n, ContainerAttr); ok {
		return true
	}
	class, _ := getAttr(n, "class")
	for _, c := range strings.Fields(class) {
		if strings.HasPrefix(c, ContainerClassPrefix) {
			return true
		}
	}
	return false
}

// lineNodes returns the span and div elements under container that hold
// lyric text directly, in document order.
func lineNodes(container *html.Node) []*html.Node {
	var lines []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if _, ok := getAttr(c, AltAttr); ok {
				continue
			}
			if isLineNode(c) {
				lines = append(lines, c)
				continue
			}
			walk(c)
		}
	}
	walk(container)
	return lines
}

func isLineNode(n *html.Node) bool {
	if n.Data != "span" && n.Data != "div" {
		return false
	}
	if _, ok := getAttr(n, StateAttr); ok {
		return true
	}
	return visibleTextNode(n) != nil
}

// visibleTextNode returns the first direct text child with content.
func visibleTextNode(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
			return c
		}
	}
	return nil
}

func altNode(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if _, ok := getAttr(c, AltAttr); ok {
			return c
		}
	}
	return nil
}

// Lines returns the visible text of every line of the lyrics container
// under root.
func Lines(root *html.Node) []string {
	container := FindContainer(root)
	if container == nil {
		return nil
	}
	var out []string
	for _, n := range lineNodes(container) {
		if t := visibleTextNode(n); t != nil {
			out = append(out, strings.TrimSpace(t.Data))
		}
	}
	return out
}

// Parse reads a presentation tree.
func Parse(r io.Reader) (*html.Node, error) {
	return html.Parse(r)
}

// Render writes the presentation tree back as HTML.
func Render(w io.Writer, root *html.Node) error {
	return html.Render(w, root)
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, attr := range n.Attr {
		if attr.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
