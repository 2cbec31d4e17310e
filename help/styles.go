package help

import (
	"github.com/gdamore/tcell/v2"
)

// Styles holds the styles of the summary and the column layout.
type Styles struct {
	Key       tcell.Style
	Desc      tcell.Style
	Separator tcell.Style
	// Idle marks navigation keys that would not move the cursor.
	Idle     tcell.Style
	Ellipsis tcell.Style
}

func DefaultStyles() Styles {
	dim := tcell.StyleDefault.Dim(true)
	return Styles{
		Key:       tcell.StyleDefault.Bold(true),
		Desc:      tcell.StyleDefault,
		Separator: dim,
		Idle:      dim.Italic(true),
		Ellipsis:  dim,
	}
}
