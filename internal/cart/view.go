package cart

// View is the JSON shape of a cart returned to clients.
type View struct {
	Lines     []Line `json:"lines"`
	ItemCount int    `json:"item_count"`
	Subtotal  string `json:"subtotal"`
}

func (c Cart) View() View {
	lines := c.Lines
	if lines == nil {
		lines = []Line{}
	}
	return View{Lines: lines, ItemCount: c.ItemCount(), Subtotal: c.FormattedSubtotal()}
}
