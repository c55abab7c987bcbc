package grid

import "github.com/JonMunkholm/checkgrid/internal/assets"

// RegisterClientScript registers the row highlighting script for the grid
// container on page. Columns without RowHighlight register nothing.
func (c *CheckboxColumn) RegisterClientScript(page *assets.Page, containerID string) {
	if !c.RowHighlight {
		return
	}
	page.RegisterSelectRow(containerID, c.RowSelectedClass)
}
