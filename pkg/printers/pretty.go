package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/metas/pkg/task"
	"tableflip.dev/metas/pkg/tree"
)

const (
	markOpen = "●"
	markDone = "✘"
)

type PrettyPrint struct {
	ShowID bool

	// Describe renders a task's schedule column; nil leaves it blank.
	Describe func(*task.Task) string
}

var (
	spacing = strings.Repeat(" ", len("171dff69f8b99dca  "))
)

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Println(title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Print(title)
	_, _ = c.Printf(" - %d", count)

	switch count {
	case 1:
		_, _ = c.Println(" task")
	default:
		_, _ = c.Println(" tasks")
	}
}

// Line prints an id/label row outside of a tree, e.g. for goal catalogs.
func (pp *PrettyPrint) Line(id, label string) {
	if pp.ShowID {
		y := color.New(color.FgHiYellow, color.Italic, color.Faint)
		_, _ = y.Print(id)
		if pad := len(spacing) - len(id); pad > 0 {
			_, _ = y.Print(strings.Repeat(" ", pad))
		}
	}
	fmt.Println(label)
}

// Forest renders a goal's task tree, indenting children under their parent.
func (pp *PrettyPrint) Forest(nodes ...*tree.Node) {
	if len(nodes) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowID {
			_, _ = f.Print(spacing)
		}
		_, _ = f.Print(" none\n\n")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, n := range nodes {
		pp.addRows(tbl, n)
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
	fmt.Println("")
}

func (pp *PrettyPrint) addRows(tbl *uitable.Table, n *tree.Node) {
	mark := markOpen
	if n.Done {
		mark = markDone
	}
	indent := strings.Repeat("  ", n.Level)

	summary := ""
	if pp.Describe != nil {
		summary = pp.Describe(n.Task)
	}

	cells := make([]interface{}, 0, 4)
	if pp.ShowID {
		cells = append(cells, color.New(color.FgHiYellow, color.Italic, color.Faint).Sprint(n.ID))
	}
	title := n.Title
	if n.Done {
		title = color.New(color.Faint).Sprint(title)
	}
	cells = append(cells,
		fmt.Sprintf("%s%s %s", indent, mark, title),
		color.New(color.Faint).Sprintf("%dp", n.Points),
		color.New(color.FgCyan).Sprint(summary),
	)
	tbl.AddRow(cells...)

	for _, child := range n.Children {
		pp.addRows(tbl, child)
	}
}
