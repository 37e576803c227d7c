// Package ui describes pages as declarative component trees that a client
// renders.
package ui

// Props are free-form component properties.
type Props map[string]any

// Component is one node of a UI tree.
type Component struct {
	Type     string      `json:"type"`
	Props    Props       `json:"props,omitempty"`
	Children []Component `json:"children,omitempty"`
}

// With returns a copy of c with extra props merged in.
func (c Component) With(props Props) Component {
	merged := make(Props, len(c.Props)+len(props))
	for k, v := range c.Props {
		merged[k] = v
	}
	for k, v := range props {
		merged[k] = v
	}
	c.Props = merged
	return c
}

func node(kind string, props Props, children ...Component) Component {
	return Component{Type: kind, Props: props, Children: children}
}

// Stack lays children out vertically unless props say otherwise.
func Stack(children ...Component) Component { return node("Stack", nil, children...) }

// HStack lays children out horizontally.
func HStack(children ...Component) Component {
	return node("Stack", Props{"direction": "horizontal"}, children...)
}

// Card groups children under an optional title.
func Card(title string, children ...Component) Component {
	var props Props
	if title != "" {
		props = Props{"title": title}
	}
	return node("Card", props, children...)
}

func Text(text string) Component { return node("Text", Props{"text": text}) }

func Heading(text string, level int) Component {
	return node("Heading", Props{"heading": text, "level": level})
}

// Table binds rows and column descriptors.
func Table(rows any, columns any) Component {
	return node("Table", Props{"data": rows, "columns": columns})
}

// Select offers items and reports the chosen value to endpoint.
func Select(items []string, value any, endpoint string) Component {
	return node("Select", Props{"items": items, "value": value, "endpoint": endpoint})
}

func Button(label, endpoint string) Component {
	return node("Button", Props{"label": label, "endpoint": endpoint})
}

func Anchor(label, href string) Component {
	return node("Anchor", Props{"href": href, "new_tab": true, "label": label})
}

// Grid arranges children in rows of equal columns.
func Grid(columns int, children ...Component) Component {
	return node("Grid", Props{"columns": columns}, children...)
}

// Figure embeds a plot document or an endpoint returning one.
func Figure(source any) Component { return node("Figure", Props{"figure": source}) }

// Placeholder marks an empty state with a message.
func Placeholder(message string) Component {
	return node("Placeholder", Props{"message": message})
}
